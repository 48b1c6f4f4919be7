package bal

// ParsedEntity is a flattened entity definition as consumed by the
// visual compiler and the execution engine.
type ParsedEntity struct {
	Name   string       `json:"name"`
	Config EntityConfig `json:"config"`
}

// EntityConfig is the normalized configuration of an entity. Output maps
// field names to canonical type strings ("string", "number?", ...).
type EntityConfig struct {
	Goal      string            `json:"goal"`
	Model     string            `json:"model,omitempty"`
	Tools     []string          `json:"tools"`
	Output    map[string]string `json:"output,omitempty"`
	History   int               `json:"history,omitempty"`
	MaxTokens int               `json:"maxTokens,omitempty"`
	Trigger   *TriggerConfig    `json:"trigger,omitempty"`
}

// ExtractEntities flattens the file's entity declarations in declaration
// order. Duplicate names resolve last-write-wins, keeping the position of
// the first declaration. Total over any parsed file: a missing goal
// becomes the empty string, never an error.
func ExtractEntities(file *File) []ParsedEntity {
	if file == nil {
		return nil
	}

	index := make(map[string]int, len(file.Entities))
	entities := make([]ParsedEntity, 0, len(file.Entities))
	for _, decl := range file.Entities {
		entity := ParsedEntity{Name: decl.Name, Config: extractConfig(decl)}
		if i, seen := index[decl.Name]; seen {
			entities[i] = entity
			continue
		}
		index[decl.Name] = len(entities)
		entities = append(entities, entity)
	}
	return entities
}

func extractConfig(decl *EntityDecl) EntityConfig {
	cfg := EntityConfig{
		Goal:      decl.Goal,
		Model:     decl.Model,
		Tools:     decl.Tools,
		History:   decl.History,
		MaxTokens: decl.MaxTokens,
		Trigger:   ParseTrigger(decl.Trigger),
	}
	if cfg.Tools == nil {
		cfg.Tools = []string{}
	}
	if decl.Output != nil {
		cfg.Output = make(map[string]string, len(decl.Output.Fields))
		for _, f := range decl.Output.Fields {
			cfg.Output[f.Name] = f.Type.Canonical()
		}
	}
	return cfg
}
