package visual

// Options configure the compiler: the tool vocabulary driving
// relationship edges and the layout geometry. Passed explicitly so the
// compiler stays purely functional and testable with any vocabulary.
type Options struct {
	// SpawnTools are tool names granting the spawn capability; a node
	// carrying one fans out a spawn edge to every other node.
	SpawnTools []string

	// SharedDataTools are tool names that link the nodes sharing them.
	SharedDataTools []string

	// ApprovalTools are tool names that require user approval before
	// running; they populate a node's canRequest list.
	ApprovalTools []string

	// Layout geometry.
	NodeWidth     float64
	HorizontalGap float64
	BaselineY     float64
	RowGap        float64
	DenseRowGap   float64
	DenseRowCount int
}

// DefaultOptions returns the built-in tool vocabulary and geometry.
func DefaultOptions() Options {
	return Options{
		SpawnTools:      []string{"spawn_baleybot"},
		SharedDataTools: []string{"store_memory", "shared_workspace"},
		ApprovalTools:   []string{"spawn_baleybot"},
		NodeWidth:       200,
		HorizontalGap:   100,
		BaselineY:       100,
		RowGap:          150,
		DenseRowGap:     100,
		DenseRowCount:   4,
	}
}

// Option mutates compiler options.
type Option func(*Options)

// WithSpawnTools overrides the spawn-capability tool names.
func WithSpawnTools(tools ...string) Option {
	return func(o *Options) { o.SpawnTools = tools }
}

// WithSharedDataTools overrides the shared-data tool names.
func WithSharedDataTools(tools ...string) Option {
	return func(o *Options) { o.SharedDataTools = tools }
}

// WithApprovalTools overrides the tool names listed in canRequest.
func WithApprovalTools(tools ...string) Option {
	return func(o *Options) { o.ApprovalTools = tools }
}

// WithGeometry overrides node width and horizontal gap.
func WithGeometry(nodeWidth, horizontalGap float64) Option {
	return func(o *Options) {
		o.NodeWidth = nodeWidth
		o.HorizontalGap = horizontalGap
	}
}
