package cmd

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/mittwald/redistatus/internal/config"
	"github.com/mittwald/redistatus/pkg/redisstatus"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"github.com/tidwall/pretty"
)

type checkOptions struct {
	name            string
	host            string
	port            int
	password        string
	memoryThreshold string
	timeout         string
	infoParser      string

	json           bool
	noColor        bool
	exitWithStatus bool
}

var checkOpts checkOptions

// exit is replaced in tests.
var exit = os.Exit

func init() {
	f := checkCmd.Flags()
	f.StringVar(&checkOpts.host, "host", "", "check this host instead of a configured instance")
	f.IntVar(&checkOpts.port, "port", 6379, "port of --host")
	f.StringVar(&checkOpts.password, "password", "", "password of --host (supports ENV:NAME)")
	f.StringVar(&checkOpts.name, "name", "", "name of --host used in messages (defaults to the host)")
	f.StringVar(&checkOpts.memoryThreshold, "memory-threshold", "", "highest healthy used_memory of --host in bytes")
	f.StringVar(&checkOpts.timeout, "timeout", "", "upper bound for the check of --host, e.g. 2s")
	f.StringVar(&checkOpts.infoParser, "info-parser", "", `how to read used_memory of --host ("positional" or "lookup")`)
	f.BoolVarP(&checkOpts.json, "json", "j", false, "print the result as JSON")
	f.BoolVar(&checkOpts.noColor, "no-color", false, "do not colourise JSON output")
	f.BoolVar(&checkOpts.exitWithStatus, "exit-with-status", true, "exit with status code 1 if the instance is unhealthy")

	rootCmd.AddCommand(checkCmd)
}

var checkCmd = &cobra.Command{
	Use:        "check [instance]",
	Args:       cobra.MaximumNArgs(1),
	ArgAliases: []string{"instance"},
	Short:      "Check whether a Redis instance is healthy",
	Long: "This command runs one health check against a Redis instance.\n\n" +
		"The instance is either taken from the configuration directory (the name can be omitted when only one instance is configured) " +
		"or described ad hoc with --host.",
	RunE: func(cmd *cobra.Command, args []string) error {
		instance, err := checkOpts.resolveInstance(args)
		if err != nil {
			return err
		}

		checker, err := instance.NewStatusChecker()
		if err != nil {
			return err
		}

		result := checker.CheckStatus(cmd.Context())
		if result != nil && !redisstatus.IsUnhealthy(result) {
			return errors.Wrapf(result, "could not check instance %s", instance.Name)
		}

		if err := checkOpts.print(cmd.OutOrStdout(), checker.Config(), result); err != nil {
			return errors.Wrap(err, "failed to print output")
		}

		if result != nil && checkOpts.exitWithStatus {
			exit(1)
		}

		return nil
	},
}

func (o *checkOptions) resolveInstance(args []string) (*config.Instance, error) {
	if o.host != "" {
		if len(args) > 0 {
			return nil, errors.New("an instance name and --host cannot be used together")
		}
		return o.adHocInstance(), nil
	}

	ignition := &config.Ignition{}
	if err := ignition.GenerateFromConfigDir(configDir); err != nil {
		return nil, errors.Wrapf(err, "failed while trying to read configuration from dir '%s'", configDir)
	}

	name, err := determineInstanceName(args, ignition)
	if err != nil {
		return nil, err
	}

	return ignition.FindInstance(name)
}

func (o *checkOptions) adHocInstance() *config.Instance {
	name := o.name
	if name == "" {
		name = o.host
	}

	return &config.Instance{
		Name: name,
		Host: config.Host{
			Hostname: o.host,
			Port:     strconv.Itoa(o.port),
		},
		Password:        o.password,
		MemoryThreshold: o.memoryThreshold,
		Timeout:         o.timeout,
		InfoParser:      o.infoParser,
	}
}

func determineInstanceName(args []string, ignition *config.Ignition) (string, error) {
	if len(args) != 0 {
		return args[0], nil
	}

	names := ignition.InstanceNames()
	if len(names) == 0 {
		return "", errors.New("no instances configured")
	}

	if len(names) > 1 {
		return "", errors.New("more than one instance configured; please provide an instance name as argument")
	}

	return names[0], nil
}

type checkResult struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	OK      bool   `json:"ok"`
	Message string `json:"message,omitempty"`
}

func (o *checkOptions) print(out io.Writer, cfg redisstatus.Config, result error) error {
	if !o.json {
		_, err := fmt.Fprintln(out, renderResult(cfg, result))
		return err
	}

	body, err := resultJSON(cfg, result, !o.noColor)
	if err != nil {
		return err
	}

	_, err = out.Write(body)
	return err
}

func resultJSON(cfg redisstatus.Config, result error, color bool) ([]byte, error) {
	r := checkResult{Name: cfg.Name, Address: cfg.Addr(), OK: result == nil}
	if result != nil {
		r.Message = result.Error()
	}

	body, err := json.Marshal(&r)
	if err != nil {
		return nil, err
	}

	body = pretty.Pretty(body)
	if color {
		body = pretty.Color(body, nil)
	}
	return body, nil
}
