package config

import (
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Configuration holds the process-wide options loadable from a YAML file.
// Command line flags override anything set here.
type Configuration struct {
	// Prompt is the prompt template (\! next history index, \w working
	// directory).
	Prompt string `json:"prompt"`

	// Output names a transcript file to write executed lines to.
	Output string `json:"output"`

	// Debug enables full failure detail on diagnostic output.
	Debug bool `json:"debug"`

	// Modules lists provider modules to import before the first script
	// line runs.
	Modules []string `json:"modules" validate:"unique"`
}

// Validate the configuration for basic semantic errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		return name
	})

	return validate.Struct(c)
}
