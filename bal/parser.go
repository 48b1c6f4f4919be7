package bal

import (
	"fmt"
	"strconv"
)

// Parser parses a BAL token stream into a File.
type Parser struct {
	lexer *Lexer
	cur   Token
	peek  Token
}

// NewParser creates a new parser for the given input.
func NewParser(input string) *Parser {
	p := &Parser{lexer: NewLexer(input)}
	p.nextToken()
	p.nextToken()
	return p
}

func (p *Parser) nextToken() {
	p.cur = p.peek
	p.peek = p.lexer.NextToken()
}

func (p *Parser) expect(t TokenType) error {
	if p.cur.Type == TokenError {
		return fmt.Errorf("%s at line %d", p.cur.Literal, p.cur.Line)
	}
	if p.cur.Type != t {
		return fmt.Errorf("expected %s, got %s at line %d", tokenName(t), describeToken(p.cur), p.cur.Line)
	}
	return nil
}

func (p *Parser) expectIdent() (string, error) {
	if p.cur.Type != TokenIdent {
		return "", fmt.Errorf("expected identifier, got %s at line %d", describeToken(p.cur), p.cur.Line)
	}
	lit := p.cur.Literal
	p.nextToken()
	return lit, nil
}

func (p *Parser) expectString() (string, error) {
	if p.cur.Type != TokenString {
		return "", fmt.Errorf("expected string, got %s at line %d", describeToken(p.cur), p.cur.Line)
	}
	lit := p.cur.Literal
	p.nextToken()
	return lit, nil
}

func tokenName(t TokenType) string {
	switch t {
	case TokenLBrace:
		return "'{'"
	case TokenRBrace:
		return "'}'"
	case TokenLBracket:
		return "'['"
	case TokenRBracket:
		return "']'"
	case TokenColon:
		return "':'"
	case TokenComma:
		return "','"
	case TokenIdent:
		return "identifier"
	case TokenString:
		return "string"
	case TokenNumber:
		return "number"
	case TokenEOF:
		return "end of input"
	default:
		return "token"
	}
}

func describeToken(t Token) string {
	if t.Type == TokenEOF {
		return "end of input"
	}
	return fmt.Sprintf("%q", t.Literal)
}

// ParseFile parses the input and returns the file AST. On any syntactic
// violation it fails atomically: the returned File is nil and no partial
// fragments escape.
func ParseFile(input string) (*File, error) {
	p := NewParser(input)
	return p.parseFile()
}

func (p *Parser) parseFile() (*File, error) {
	file := &File{}

	for p.cur.Type != TokenEOF {
		switch p.cur.Type {
		case TokenKeyword:
			// Pipeline statement. At most one is meaningful; the last
			// one in the file wins.
			expr, err := p.parsePipelineExpr()
			if err != nil {
				return nil, err
			}
			file.Pipeline = expr
		case TokenIdent:
			decl, err := p.parseEntityDecl()
			if err != nil {
				return nil, err
			}
			file.Entities = append(file.Entities, decl)
		case TokenError:
			return nil, fmt.Errorf("%s at line %d", p.cur.Literal, p.cur.Line)
		default:
			return nil, fmt.Errorf("expected entity declaration or pipeline statement, got %s at line %d", describeToken(p.cur), p.cur.Line)
		}
	}

	return file, nil
}

// parsePipelineExpr parses chain/parallel/when constructs, which may nest.
func (p *Parser) parsePipelineExpr() (Expr, error) {
	switch p.cur.Literal {
	case "chain":
		return p.parseChain()
	case "parallel":
		return p.parseParallel()
	case "when":
		return p.parseWhen()
	default:
		return nil, fmt.Errorf("unknown pipeline keyword %q at line %d", p.cur.Literal, p.cur.Line)
	}
}

// parseChain parses `chain { a b c }`. Elements are entity references or
// nested parallel/when blocks.
func (p *Parser) parseChain() (Expr, error) {
	p.nextToken() // consume 'chain'
	if err := p.expect(TokenLBrace); err != nil {
		return nil, fmt.Errorf("chain: %w", err)
	}
	p.nextToken()

	chain := &ChainExpr{}
	for p.cur.Type != TokenRBrace {
		switch p.cur.Type {
		case TokenIdent:
			chain.Body = append(chain.Body, &EntityRef{Name: p.cur.Literal})
			p.nextToken()
		case TokenKeyword:
			expr, err := p.parsePipelineExpr()
			if err != nil {
				return nil, err
			}
			chain.Body = append(chain.Body, expr)
		case TokenEOF:
			return nil, fmt.Errorf("chain: missing closing '}' at line %d", p.cur.Line)
		case TokenError:
			return nil, fmt.Errorf("%s at line %d", p.cur.Literal, p.cur.Line)
		default:
			return nil, fmt.Errorf("chain: expected entity name, got %s at line %d", describeToken(p.cur), p.cur.Line)
		}
	}
	p.nextToken() // consume '}'
	return chain, nil
}

// parseParallel parses `parallel { "label": target, ... }`.
func (p *Parser) parseParallel() (Expr, error) {
	p.nextToken() // consume 'parallel'
	if err := p.expect(TokenLBrace); err != nil {
		return nil, fmt.Errorf("parallel: %w", err)
	}
	p.nextToken()

	par := &ParallelExpr{}
	for p.cur.Type != TokenRBrace {
		label, err := p.expectString()
		if err != nil {
			return nil, fmt.Errorf("parallel branch label: %w", err)
		}
		if err := p.expect(TokenColon); err != nil {
			return nil, fmt.Errorf("parallel branch %q: %w", label, err)
		}
		p.nextToken()

		target, err := p.parseBranchTarget()
		if err != nil {
			return nil, fmt.Errorf("parallel branch %q: %w", label, err)
		}
		par.Branches = append(par.Branches, ParallelBranch{Label: label, Target: target})

		if p.cur.Type == TokenComma {
			p.nextToken()
		} else if p.cur.Type != TokenRBrace {
			return nil, fmt.Errorf("parallel: expected ',' or '}', got %s at line %d", describeToken(p.cur), p.cur.Line)
		}
	}
	p.nextToken() // consume '}'
	return par, nil
}

// parseWhen parses `when entity { "pass": a, "fail": b }`.
func (p *Parser) parseWhen() (Expr, error) {
	p.nextToken() // consume 'when'

	cond, err := p.expectIdent()
	if err != nil {
		return nil, fmt.Errorf("when: %w", err)
	}
	if err := p.expect(TokenLBrace); err != nil {
		return nil, fmt.Errorf("when %s: %w", cond, err)
	}
	p.nextToken()

	when := &WhenExpr{Condition: cond}
	for p.cur.Type != TokenRBrace {
		branch, err := p.expectString()
		if err != nil {
			return nil, fmt.Errorf("when %s: %w", cond, err)
		}
		if branch != "pass" && branch != "fail" {
			return nil, fmt.Errorf("when %s: unknown branch %q (want \"pass\" or \"fail\") at line %d", cond, branch, p.cur.Line)
		}
		if err := p.expect(TokenColon); err != nil {
			return nil, fmt.Errorf("when %s branch %q: %w", cond, branch, err)
		}
		p.nextToken()

		target, err := p.parseBranchTarget()
		if err != nil {
			return nil, fmt.Errorf("when %s branch %q: %w", cond, branch, err)
		}
		if branch == "pass" {
			when.Pass = target
		} else {
			when.Fail = target
		}

		if p.cur.Type == TokenComma {
			p.nextToken()
		} else if p.cur.Type != TokenRBrace {
			return nil, fmt.Errorf("when %s: expected ',' or '}', got %s at line %d", cond, describeToken(p.cur), p.cur.Line)
		}
	}
	p.nextToken() // consume '}'
	return when, nil
}

// parseBranchTarget parses the target of a parallel or conditional
// branch: an entity reference or a nested pipeline construct.
func (p *Parser) parseBranchTarget() (Expr, error) {
	switch p.cur.Type {
	case TokenIdent:
		ref := &EntityRef{Name: p.cur.Literal}
		p.nextToken()
		return ref, nil
	case TokenKeyword:
		return p.parsePipelineExpr()
	case TokenError:
		return nil, fmt.Errorf("%s at line %d", p.cur.Literal, p.cur.Line)
	default:
		return nil, fmt.Errorf("expected entity name, got %s at line %d", describeToken(p.cur), p.cur.Line)
	}
}

// objectField preserves declaration order inside `{ ... }` values, which
// matters for output schemas.
type objectField struct {
	Key   string
	Value any
}

// parseEntityDecl parses `name { "key": value, ... }`.
func (p *Parser) parseEntityDecl() (*EntityDecl, error) {
	decl := &EntityDecl{Name: p.cur.Literal, Pos: p.cur.Pos}
	p.nextToken()

	if err := p.expect(TokenLBrace); err != nil {
		return nil, fmt.Errorf("entity %s: %w", decl.Name, err)
	}
	fields, err := p.parseObject()
	if err != nil {
		return nil, fmt.Errorf("entity %s: %w", decl.Name, err)
	}

	for _, f := range fields {
		decl.assign(f.Key, f.Value)
	}
	return decl, nil
}

// assign maps a raw config pair onto the declaration. Unknown keys and
// mistyped values are ignored so a half-written entity still parses.
func (d *EntityDecl) assign(key string, value any) {
	switch key {
	case "goal":
		if s, ok := value.(string); ok {
			d.Goal = s
		}
	case "model":
		if s, ok := value.(string); ok {
			d.Model = s
		}
	case "tools":
		if items, ok := value.([]any); ok {
			for _, item := range items {
				if s, ok := item.(string); ok {
					d.Tools = append(d.Tools, s)
				}
			}
		}
	case "output":
		if fields, ok := value.([]objectField); ok {
			d.Output = buildOutputSchema(fields)
		}
	case "history":
		if n, ok := value.(int); ok {
			d.History = n
		}
	case "max_tokens", "maxTokens":
		if n, ok := value.(int); ok {
			d.MaxTokens = n
		}
	case "trigger":
		switch v := value.(type) {
		case string:
			d.Trigger = v
		case []objectField:
			obj := make(map[string]any, len(v))
			for _, f := range v {
				obj[f.Key] = f.Value
			}
			d.Trigger = obj
		}
	}
}

// buildOutputSchema converts an output object's fields into a schema.
// Field values that are themselves objects canonicalize to "object".
func buildOutputSchema(fields []objectField) *OutputSchema {
	schema := &OutputSchema{}
	for _, f := range fields {
		switch v := f.Value.(type) {
		case string:
			schema.Fields = append(schema.Fields, OutputField{Name: f.Key, Type: ParseTypeSpec(v)})
		case []objectField:
			schema.Fields = append(schema.Fields, OutputField{Name: f.Key, Type: TypeSpec{Kind: TypeObject}})
		}
	}
	return schema
}

// parseObject parses `{ "key": value, ... }` with the cursor on '{'.
func (p *Parser) parseObject() ([]objectField, error) {
	if err := p.expect(TokenLBrace); err != nil {
		return nil, err
	}
	p.nextToken()

	var fields []objectField
	for p.cur.Type != TokenRBrace {
		key, err := p.expectString()
		if err != nil {
			return nil, fmt.Errorf("config key: %w", err)
		}
		if err := p.expect(TokenColon); err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		p.nextToken()

		value, err := p.parseValue()
		if err != nil {
			return nil, fmt.Errorf("key %q: %w", key, err)
		}
		fields = append(fields, objectField{Key: key, Value: value})

		if p.cur.Type == TokenComma {
			p.nextToken()
		} else if p.cur.Type != TokenRBrace {
			return nil, fmt.Errorf("expected ',' or '}', got %s at line %d", describeToken(p.cur), p.cur.Line)
		}
	}
	p.nextToken() // consume '}'
	return fields, nil
}

// parseValue parses a config value: string, number, array, or object.
func (p *Parser) parseValue() (any, error) {
	switch p.cur.Type {
	case TokenString:
		s := p.cur.Literal
		p.nextToken()
		return s, nil

	case TokenNumber:
		n, err := strconv.Atoi(p.cur.Literal)
		if err != nil {
			return nil, fmt.Errorf("invalid number %q at line %d", p.cur.Literal, p.cur.Line)
		}
		p.nextToken()
		return n, nil

	case TokenLBracket:
		p.nextToken()
		var items []any
		for p.cur.Type != TokenRBracket {
			item, err := p.parseValue()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if p.cur.Type == TokenComma {
				p.nextToken()
			} else if p.cur.Type != TokenRBracket {
				return nil, fmt.Errorf("expected ',' or ']', got %s at line %d", describeToken(p.cur), p.cur.Line)
			}
		}
		p.nextToken() // consume ']'
		if items == nil {
			items = []any{}
		}
		return items, nil

	case TokenLBrace:
		return p.parseObject()

	case TokenError:
		return nil, fmt.Errorf("%s at line %d", p.cur.Literal, p.cur.Line)

	default:
		return nil, fmt.Errorf("unexpected %s in value position at line %d", describeToken(p.cur), p.cur.Line)
	}
}
