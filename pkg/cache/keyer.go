package cache

// Keyer builds cache keys.
type Keyer interface {
	// LayoutKey keys the layouts of one block tree.
	LayoutKey(blockHash string, opts LayoutKeyOpts) string

	// ArtifactKey keys a rendered artifact of one layout.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// LayoutKeyOpts holds everything besides the block that shapes a layout.
type LayoutKeyOpts struct {
	Renderer      string  `json:"renderer"`
	ConstantsHash string  `json:"constants"`
	OriginX       float64 `json:"x,omitempty"`
	OriginY       float64 `json:"y,omitempty"`
}

// ArtifactKeyOpts holds the render options of an artifact.
type ArtifactKeyOpts struct {
	Format          string  `json:"format"`
	Theme           string  `json:"theme,omitempty"`
	ShowConnections bool    `json:"connections,omitempty"`
	Padding         float64 `json:"padding,omitempty"`
}

// DefaultKeyer hashes key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// LayoutKey returns "layout:<sha256>".
func (DefaultKeyer) LayoutKey(blockHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", blockHash, opts)
}

// ArtifactKey returns "artifact:<sha256>".
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
