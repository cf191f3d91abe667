package main

import (
	stderrors "errors"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/wippyai/comsafe/errors"
	"github.com/wippyai/comsafe/taxonomy"
)

const (
	configFileName = ".comerrgen"
	configFileType = "yaml"
	envPrefix      = "COMERRGEN"

	keyInput   = "input"
	keyOutput  = "output"
	keyPackage = "package"
	keyImport  = "hresult-import"
	keyVerbose = "verbose"
)

// options is the resolved generator configuration. Precedence is
// flag > COMERRGEN_* env > config file > default.
type options struct {
	Input   string
	Output  string
	Package string
	Import  string
	Verbose bool
}

type config struct {
	v    *viper.Viper
	file string
}

func newConfig() *config {
	v := viper.New()
	v.SetDefault(keyImport, taxonomy.DefaultHResultImport)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	return &config{v: v}
}

func (c *config) load(flags *pflag.FlagSet) error {
	if err := c.v.BindPFlags(flags); err != nil {
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "bind flags")
	}

	if c.file != "" {
		c.v.SetConfigFile(c.file)
	} else {
		c.v.SetConfigName(configFileName)
		c.v.SetConfigType(configFileType)
		c.v.AddConfigPath(".")
	}

	if err := c.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if c.file == "" && stderrors.As(err, &notFound) {
			return nil
		}
		return errors.Wrap(errors.PhaseConfig, errors.KindInvalidInput, err, "read config")
	}
	return nil
}

func (c *config) options() (options, error) {
	opts := options{
		Input:   c.v.GetString(keyInput),
		Output:  c.v.GetString(keyOutput),
		Package: c.v.GetString(keyPackage),
		Import:  c.v.GetString(keyImport),
		Verbose: c.v.GetBool(keyVerbose),
	}

	var missing []string
	for _, req := range []struct{ key, val string }{
		{keyInput, opts.Input},
		{keyOutput, opts.Output},
		{keyPackage, opts.Package},
	} {
		if req.val == "" {
			missing = append(missing, "--"+req.key)
		}
	}
	if len(missing) > 0 {
		return options{}, errors.InvalidInput(errors.PhaseConfig, "missing "+strings.Join(missing, ", "))
	}
	return opts, nil
}
