package cfg

type Cfg struct {
	// Shop connection
	Shop       string
	Token      string
	APIVersion string

	// Feed source
	SourceKind  string
	SourcePath  string
	Mapping     string
	MappingFile string

	// Sync behavior
	Mode            string
	ChunkSize       int
	SetupMetafields bool

	// State storage
	StatePath string

	// Application metadata
	UserAgent string
	Debug     bool
	Version   string
}
