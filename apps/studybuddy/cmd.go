package main

import (
	"fmt"
	"io"
	"os"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/lowkey/studybuddy/apps/session"
	"github.com/lowkey/studybuddy/core"
	"github.com/lowkey/studybuddy/core/account"
	"github.com/lowkey/studybuddy/core/assessment"
	"github.com/lowkey/studybuddy/core/organization"
	"github.com/lowkey/studybuddy/core/performance"
	logsvc "github.com/lowkey/studybuddy/services/logger"
	"github.com/lowkey/studybuddy/storage/database"
)

var (
	readPasswordFunc = term.ReadPassword // mockable
	openBackendFunc  = database.Open     // mockable

	errHelp = errors.New("help provided")
)

type commandLine struct {
	configFile string
	in         io.Reader // nil means the process terminal
	out        io.Writer

	conf      *core.Config
	backend   core.Backend
	logCloser io.Closer
	log       zerolog.Logger

	accounts *account.Service
	org      *organization.Registry
	marks    *assessment.Store
	analyzer performance.Analyzer
}

func newCommandLine() *commandLine {
	return &commandLine{out: os.Stdout, log: zerolog.Nop()}
}

func (cli *commandLine) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:               "studybuddy",
		Short:             "StudyBuddy keeps student marks and shows how each student performs",
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: cli.setup,
		RunE: func(*cobra.Command, []string) error {
			return cli.interactive()
		},
	}
	root.SetOut(cli.out)

	flags := root.PersistentFlags()
	flags.StringVar(&cli.configFile, "config", "", "config file (yaml, json or toml)")
	flags.String("data-dir", "", "directory holding the data and log files")
	flags.String("engine", "", "storage engine: json, bolt, sqlite or memory")

	root.AddCommand(cli.resetPasswordCmd(), cli.addUserCmd())
	return root
}

// run executes args (without the program name) and releases whatever setup opened.
func (cli *commandLine) run(args []string) (err error) {
	defer func() {
		if cerr := cli.close(); err == nil {
			err = cerr
		}
	}()
	if args == nil {
		args = []string{}
	}
	cmd := cli.rootCmd()
	cmd.SetArgs(args)
	return cmd.Execute()
}

// setup loads the config and opens the storage, the logger and the services.
func (cli *commandLine) setup(cmd *cobra.Command, _ []string) error {
	v, err := core.NewViper(cli.configFile)
	if err != nil {
		return err
	}
	flags := cmd.Flags()
	for key, name := range map[string]string{"data_dir": "data-dir", "storage.engine": "engine"} {
		if f := flags.Lookup(name); f != nil && f.Changed {
			if err := v.BindPFlag(key, f); err != nil {
				return errors.Wrapf(err, "binding --%s", name)
			}
		}
	}

	conf, err := core.NewConfig(v)
	if err != nil {
		return err
	}
	policy, err := performance.PolicyByName(conf.Analysis.OverallPolicy)
	if err != nil {
		return err
	}

	logger, closer, err := logsvc.New(conf.Log, conf.AppName)
	if err != nil {
		return err
	}
	backend, err := openBackendFunc(conf)
	if err != nil {
		_ = closer.Close()
		return err
	}

	hasher := account.NewHasher(conf.Security)
	pwdPolicy := account.PasswordPolicy(conf.Security.PasswordPolicy)
	cli.conf = conf
	cli.log = logger
	cli.logCloser = closer
	cli.backend = backend
	cli.accounts = account.NewService(backend, hasher, account.DuplicatePolicy(conf.Accounts.DuplicatePolicy), pwdPolicy, logger)
	cli.org = organization.NewRegistry(backend, hasher, pwdPolicy, logger)
	cli.marks = assessment.NewStore(backend, conf.Scores, logger)
	cli.analyzer = performance.NewAnalyzer(policy)

	logger.Info().Str("engine", conf.Storage.Engine).Str("path", conf.Storage.Path).Msg("storage opened")
	return nil
}

func (cli *commandLine) close() error {
	var err error
	if cli.backend != nil {
		err = cli.backend.Close()
		cli.backend = nil
	}
	if cli.logCloser != nil {
		_ = cli.logCloser.Close()
		cli.logCloser = nil
	}
	return err
}

func (cli *commandLine) console() *session.Console {
	if cli.in == nil {
		return session.NewTerminalConsole()
	}
	return session.NewConsole(cli.in, cli.out)
}

func (cli *commandLine) interactive() error {
	stop := cli.handleInterrupts()
	defer stop()

	sess := session.New(session.Options{
		Console:      cli.console(),
		Accounts:     cli.accounts,
		Organization: cli.org,
		Marks:        cli.marks,
		Analyzer:     cli.analyzer,
		AppName:      cli.conf.AppName,
		Logger:       cli.log,
	})
	return sess.Run()
}

// readPassword prompts for a password without echoing it.
func (cli *commandLine) readPassword(prompt string) (string, error) {
	_, _ = fmt.Fprint(cli.out, prompt)
	pwd, err := readPasswordFunc(int(os.Stdin.Fd()))
	_, _ = fmt.Fprintln(cli.out)
	if err != nil {
		return "", err
	}
	return string(pwd), nil
}
