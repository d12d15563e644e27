package options

import (
	"github.com/JaimeStill/mcp-endpoints/pkg/query"
	"github.com/JaimeStill/mcp-endpoints/pkg/repository"
)

var projection = query.NewProjectionMap("public", "wp_options", "o").
	Project("option_name", "key").
	Project("option_value", "value").
	Project("autoload", "autoload")

func scanOption(s repository.Scanner) (Option, error) {
	var (
		o        Option
		raw      string
		autoload string
	)
	if err := s.Scan(&o.Key, &raw, &autoload); err != nil {
		return o, err
	}
	o.Value = DecodeValue(raw)
	o.Autoload = autoload == "yes" || autoload == "on" || autoload == "auto"
	return o, nil
}
