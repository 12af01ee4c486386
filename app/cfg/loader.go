package cfg

import (
	"cmp"
	"fmt"

	"github.com/jessevdk/go-flags"
)

// Version is set at build time via -ldflags
var Version = "dev"

func GetVersion() string {
	return cmp.Or(Version, "unknown")
}

type rawCfg struct {
	// Shop connection
	Shop       string `long:"shop" env:"SHOP" description:"Shop domain (e.g. my-store.myshopify.com) (required)" required:"true"`
	Token      string `long:"token" env:"ACCESS_TOKEN" description:"Admin API access token (required)" required:"true"`
	APIVersion string `long:"api-version" env:"API_VERSION" default:"2024-10" description:"Admin API version"`

	// Feed source
	SourceKind  string `long:"source-kind" env:"SOURCE_KIND" default:"xml" choice:"xml" choice:"csv" description:"Feed source format"`
	SourcePath  string `long:"source" env:"SOURCE_PATH" description:"Path to the feed file (required)" required:"true"`
	Mapping     string `long:"mapping" env:"MAPPING" default:"zeg" description:"Name of a built-in field mapping"`
	MappingFile string `long:"mapping-file" env:"MAPPING_FILE" description:"Path to a custom field mapping file (overrides --mapping)"`

	// Sync behavior
	Mode            string `long:"mode" env:"SYNC_MODE" default:"full" choice:"full" choice:"price" choice:"stock" description:"Sync mode"`
	ChunkSize       int    `long:"chunk-size" env:"CHUNK_SIZE" default:"25" description:"Number of records per discovery chunk"`
	SetupMetafields bool   `long:"setup-metafields" env:"SETUP_METAFIELDS" description:"Create metafield definitions for the mapping and exit"`

	// State storage
	StatePath string `long:"state" env:"STATE_PATH" default:"./state.sqlite" description:"Path to the local state database"`

	// Application metadata
	UserAgent string `long:"user-agent" env:"USER_AGENT" default:"Catalog Sync/1.0" description:"User agent string for HTTP requests"`
	Debug     bool   `long:"debug" env:"DEBUG" description:"Enable debug logging"`
}

var globalCfg *Cfg

func Load() (*Cfg, error) {
	var raw rawCfg

	parser := flags.NewParser(&raw, flags.Default)

	if _, err := parser.Parse(); err != nil {
		if flagsErr, ok := err.(*flags.Error); ok {
			if flagsErr.Type == flags.ErrHelp {
				return nil, nil
			}
		}
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	cfg := &Cfg{
		Shop:            raw.Shop,
		Token:           raw.Token,
		APIVersion:      raw.APIVersion,
		SourceKind:      raw.SourceKind,
		SourcePath:      raw.SourcePath,
		Mapping:         raw.Mapping,
		MappingFile:     raw.MappingFile,
		Mode:            raw.Mode,
		ChunkSize:       raw.ChunkSize,
		SetupMetafields: raw.SetupMetafields,
		StatePath:       raw.StatePath,
		UserAgent:       raw.UserAgent,
		Debug:           raw.Debug,
		Version:         GetVersion(),
	}

	globalCfg = cfg

	return cfg, nil
}

func Get() *Cfg {
	if globalCfg == nil {
		panic("configuration not loaded - call cfg.Load() first")
	}
	return globalCfg
}
