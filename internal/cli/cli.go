package cli

import (
	"errors"
	"fmt"
	"net"
	"os"
	"strings"

	"LitSift/internal/cli/cmd"
	"LitSift/internal/cli/output"
	"LitSift/internal/network"
	"LitSift/internal/version"
	env "LitSift/pkg"
	"LitSift/pkg/launcher"

	"github.com/Xuanwo/go-locale"
	"github.com/alecthomas/kong"
	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
	"go.abhg.dev/komplete"
	"golang.org/x/text/language"
)

const name = "litsift"

// pauseOnFailure keeps the console open after a failure so a window opened
// by a double-click does not vanish with the message. Set once the command
// line is applied; stdin must be a terminal for the pause to make sense.
var pauseOnFailure bool

type aboutCmd struct{}

func (aboutCmd) Run(ctx *kong.Context) error {
	color.New(color.Bold).Println(name, version.Current)
	color.New(color.Underline).Println(output.Translate("launcher.description"))
	fmt.Println(output.Translate("launcher.copyright"))
	fmt.Println(output.Translate("launcher.license"))
	return nil
}

type CLI struct {
	Start       cmd.StartCmd     `cmd:"" default:"withargs" help:"${start}"`
	Doctor      cmd.DoctorCmd    `cmd:"" help:"${doctor}"`
	Install     cmd.InstallCmd   `cmd:"" help:"${install}"`
	Update      cmd.UpdateCmd    `cmd:"" help:"${update}"`
	Models      cmd.ModelsCmd    `cmd:"" help:"${models}"`
	History     cmd.HistoryCmd   `cmd:"" help:"${history}"`
	Config      cmd.ConfigCmd    `cmd:"" help:"${config}"`
	Logs        cmd.LogsCmd      `cmd:"" help:"${logs}"`
	Completions komplete.Command `cmd:"" help:"${completions}"`
	About       aboutCmd         `cmd:"" help:"${about}"`

	Verbosity string `help:"${arg_verbosity}" enum:"info,extra,debug" default:"info"`
	Dir       string `help:"${arg_dir}" type:"path" placeholder:"PATH"`
	NoColor   bool   `help:"${arg_nocolor}"`
	NoPause   bool   `help:"${arg_nopause}"`
	Lang      string `help:"${arg_lang}" default:"auto"`
}

func (c *CLI) AfterApply(ctx *kong.Context) error {
	var verbosity int
	switch c.Verbosity {
	case "info":
		verbosity = 0
	case "extra":
		verbosity = 1
	case "debug":
		verbosity = 2
	}
	ctx.Bind(verbosity)

	if c.NoColor {
		color.NoColor = true
	}

	pauseOnFailure = !c.NoPause && isatty.IsTerminal(os.Stdin.Fd())

	if c.Lang != "auto" && c.Lang != "en" && c.Lang != "zh" {
		return fmt.Errorf("invalid language '%s': must be 'auto', 'en' or 'zh'", c.Lang)
	}

	layout, err := env.Resolve(c.Dir)
	if err != nil {
		return err
	}
	ctx.Bind(layout)

	return nil
}

func vars() kong.Vars {
	vars := make(kong.Vars)
	for k, v := range output.Translations() {
		vars[strings.ReplaceAll(k, ".", "_")] = v
	}
	return vars
}

func valueFormatter(value *kong.Value) string {
	if value.Enum != "" {
		return fmt.Sprintf("%s [%s]", value.Help, strings.Join(value.EnumSlice(), ", "))
	}
	return value.Help
}

// tips prints a tip message based on an error, if any are available.
func tips(err error) {
	// General internet connection related issues
	var netErr *net.OpError
	if errors.As(err, &netErr) {
		output.Tip(output.Translate("tip.internet"))
	}
	// A cache couldn't be updated from the remote source
	if errors.Is(err, network.ErrNotCached) {
		output.Tip(output.Translate("tip.cache"))
	}
	// The package the launcher runs from is incomplete
	if errors.Is(err, launcher.ErrEntryScriptMissing) {
		output.Tip(output.Translate("tip.use_dir"))
	}
	if errors.Is(err, launcher.ErrRuntimeMissing) {
		output.Tip(output.Translate("tip.restore"))
	}
	if errors.Is(err, launcher.ErrEntryScriptMissing) || errors.Is(err, launcher.ErrRuntimeMissing) {
		output.Tip(output.Translate("tip.run_doctor"))
	}
	// The application itself failed, not the launcher
	var childErr *launcher.ChildExitError
	if errors.As(err, &childErr) {
		output.Tip(output.Translate("tip.check_applog"))
	}
}

// parseLangFlag checks command line arguments for --lang flag
func parseLangFlag() string {
	args := os.Args[1:]
	for i, arg := range args {
		if arg == "--lang" && i+1 < len(args) {
			return args[i+1]
		}
		if strings.HasPrefix(arg, "--lang=") {
			return strings.TrimPrefix(arg, "--lang=")
		}
	}
	return ""
}

// setLanguage picks the console language before kong renders any help
// text. An explicit --lang wins over locale detection.
func setLanguage() {
	switch parseLangFlag() {
	case "en":
		output.SetLang(language.English)
		return
	case "zh":
		output.SetLang(language.Chinese)
		return
	case "":
	default:
		output.SetLang(language.Chinese)
		return
	}

	if tag, err := locale.Detect(); err == nil {
		output.SetLang(tag)
	} else {
		output.SetLang(language.Chinese)
	}
}

// Run parses the command line and executes the selected command. It
// returns the exit function and the code to exit with, so deferred
// cleanup in callers still runs.
func Run() (func(int), int) {
	setLanguage()

	parser := kong.Must(&CLI{},
		kong.Name(name),
		kong.Description(output.Translate("launcher.description")),
		kong.ConfigureHelp(kong.HelpOptions{
			NoExpandSubcommands: true,
			Compact:             true,
		}),
		kong.ValueFormatter(valueFormatter),
		vars(),
	)
	komplete.Run(parser)

	ctx, err := parser.Parse(os.Args[1:])
	if err != nil {
		exitCode := 1
		var parseErr *kong.ParseError
		if errors.As(err, &parseErr) {
			parseErr.Context.PrintUsage(false)
			exitCode = parseErr.ExitCode()
		}
		output.Error("%s", err)
		if pauseOnFailure {
			output.Pause()
		}
		return parser.Exit, exitCode
	}

	if err := ctx.Run(); err != nil {
		output.Error("%s", err)
		tips(err)
		if pauseOnFailure {
			output.Pause()
		}
		var coder kong.ExitCoder
		if errors.As(err, &coder) {
			return ctx.Exit, coder.ExitCode()
		}
		return ctx.Exit, 1
	}
	return ctx.Exit, 0
}
