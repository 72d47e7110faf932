package commands

import (
	"fmt"
	"strings"

	"github.com/AlecAivazis/survey/v2"

	"git.home.luguber.info/inful/gtmdocs/internal/config"
	ferrors "git.home.luguber.info/inful/gtmdocs/internal/foundation/errors"
)

// InitCmd implements the 'init' command.
type InitCmd struct {
	Force          bool   `help:"Overwrite existing configuration file"`
	NonInteractive bool   `name:"non-interactive" help:"Do not prompt; use flags and defaults"`
	AccountID      string `name:"account-id" help:"GTM account id"`
	ContainerID    string `name:"container-id" help:"GTM container id"`
	Bucket         string `help:"Storage bucket for the generated documents"`
}

func (i *InitCmd) Run(g *Global, root *CLI) error {
	if !i.NonInteractive {
		if err := i.prompt(); err != nil {
			return err
		}
	}
	return i.write(g, root.Config)
}

func (i *InitCmd) prompt() error {
	required := survey.WithValidator(survey.Required)
	questions := []struct {
		target *string
		prompt survey.Prompt
		opts   []survey.AskOpt
	}{
		{&i.AccountID, &survey.Input{Message: "GTM account id:", Default: i.AccountID}, []survey.AskOpt{required}},
		{&i.ContainerID, &survey.Input{Message: "GTM container id:", Default: i.ContainerID}, []survey.AskOpt{required}},
		{&i.Bucket, &survey.Input{Message: "Storage bucket:", Default: orDefault(i.Bucket, config.DefaultBucket)}, nil},
	}
	for _, q := range questions {
		if err := survey.AskOne(q.prompt, q.target, q.opts...); err != nil {
			return ferrors.ValidationError("prompt aborted").WithCause(err).Build()
		}
	}
	return nil
}

func (i *InitCmd) write(g *Global, configPath string) error {
	out := g.out()
	_, _ = fmt.Fprintln(out, "Initializing gtmdocs configuration")
	_, _ = fmt.Fprintf(out, "Writing configuration to %s\n", configPath)

	cfg := config.Example(strings.TrimSpace(i.AccountID), strings.TrimSpace(i.ContainerID), strings.TrimSpace(i.Bucket))
	if err := config.Init(configPath, cfg, i.Force); err != nil {
		_, _ = fmt.Fprintln(out, "Initialization failed")
		return ferrors.ConfigError("write configuration").WithCause(err).
			WithContext("path", configPath).
			Build()
	}
	_, _ = fmt.Fprintln(out, "initialized successfully")
	_, _ = fmt.Fprintln(out, "Storage uses Google application default credentials (or storage.credentials_file).")
	_, _ = fmt.Fprintln(out, "Set storage.access_key and storage.secret_key to use HMAC keys instead.")
	return nil
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
