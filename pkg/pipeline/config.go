package pipeline

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// LoadOptions reads layout options from a TOML file.
//
// All fields are optional; omitted ones keep their defaults:
//
//	x_spacing = 60.0
//	y_spacing = 40.0
//	max_station_columns = 12
//	order_lines_by_span = true
//
// The returned options are validated and defaulted.
func LoadOptions(path string) (Options, error) {
	f, err := os.Open(path)
	if err != nil {
		return Options{}, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	opts, err := ReadOptions(f)
	if err != nil {
		return Options{}, fmt.Errorf("load %s: %w", path, err)
	}
	return opts, nil
}

// ReadOptions decodes TOML layout options from r and applies defaults.
func ReadOptions(r io.Reader) (Options, error) {
	var opts Options
	meta, err := toml.NewDecoder(r).Decode(&opts)
	if err != nil {
		return Options{}, fmt.Errorf("decode options: %w", err)
	}
	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		return Options{}, fmt.Errorf("unknown option %q", undecoded[0].String())
	}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return Options{}, err
	}
	return opts, nil
}
