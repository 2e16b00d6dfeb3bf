package makesite

import "github.com/goliatone/go-makesite/internal/runtimeconfig"

var (
	ErrContentDirRequired       = runtimeconfig.ErrContentDirRequired
	ErrOutputDirRequired        = runtimeconfig.ErrOutputDirRequired
	ErrOutputDirUnsafe          = runtimeconfig.ErrOutputDirUnsafe
	ErrCollectionNameInvalid    = runtimeconfig.ErrCollectionNameInvalid
	ErrCollectionNameDuplicate  = runtimeconfig.ErrCollectionNameDuplicate
	ErrCollectionSourceRequired = runtimeconfig.ErrCollectionSourceRequired
	ErrWorkersInvalid           = runtimeconfig.ErrWorkersInvalid
	ErrSummaryWordsInvalid      = runtimeconfig.ErrSummaryWordsInvalid
	ErrLoggingProviderRequired  = runtimeconfig.ErrLoggingProviderRequired
	ErrLoggingProviderUnknown   = runtimeconfig.ErrLoggingProviderUnknown
	ErrLoggingLevelInvalid      = runtimeconfig.ErrLoggingLevelInvalid
	ErrLoggingFormatInvalid     = runtimeconfig.ErrLoggingFormatInvalid
)

type (
	Config               = runtimeconfig.Config
	PathsConfig          = runtimeconfig.PathsConfig
	CollectionConfig     = runtimeconfig.CollectionConfig
	MarkdownConfig       = runtimeconfig.MarkdownConfig
	MarkdownParserConfig = runtimeconfig.MarkdownParserConfig
	GeneratorConfig      = runtimeconfig.GeneratorConfig
	LoggingConfig        = runtimeconfig.LoggingConfig
)

func DefaultConfig() Config {
	return runtimeconfig.DefaultConfig()
}

// LoadConfig reads a YAML config file layered over the defaults, expanding
// ${VAR} references and applying MAKESITE_* overrides from the process
// environment and the given dotenv files.
func LoadConfig(path string, envFiles ...string) (Config, error) {
	env, err := runtimeconfig.LoadEnv(envFiles...)
	if err != nil {
		return Config{}, err
	}
	return runtimeconfig.Load(path, env)
}
