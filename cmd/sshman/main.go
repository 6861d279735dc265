// Command sshman is a terminal SSH connection manager: it keeps a JSON
// document of saved connection profiles, imports hosts from the OpenSSH
// client config, and launches ssh for the profile picked in the TUI.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"
	"syscall"

	"github.com/creack/pty"
	"golang.org/x/term"

	"sshman/pkg/manager"
)

var (
	flagStore       string
	flagSSHConfig   string
	flagSettings    string
	flagQuery       string
	flagHost        string
	flagList        bool
	flagImport      bool
	flagDryRun      bool
	flagExecReplace bool
	flagPrintPaths  bool
)

func main() {
	flag.StringVar(&flagStore, "store", "", "Path to the connection store JSON (default: XDG config dir)")
	flag.StringVar(&flagSSHConfig, "ssh-config", "", "SSH client config path used for import (default: ~/.ssh/config)")
	flag.StringVar(&flagSettings, "settings", "", "Path to settings.yaml (default: XDG config dir)")
	flag.StringVar(&flagQuery, "query", "", "Initial search query for the TUI")
	flag.StringVar(&flagHost, "host", "", "Connect directly to a saved profile by name")
	flag.BoolVar(&flagList, "list", false, "List saved profiles and exit")
	flag.BoolVar(&flagImport, "import", false, "Import hosts from the ssh config and exit")
	flag.BoolVar(&flagDryRun, "dry-run", false, "Print the ssh command (or import result) without executing")
	flag.BoolVar(&flagExecReplace, "exec-replace", false, "Replace this process with ssh instead of running it as a child")
	flag.BoolVar(&flagPrintPaths, "print-paths", false, "Print resolved file paths and exit")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "Usage: %s [flags]\n\n", os.Args[0])
		fmt.Fprintln(os.Stderr, "Without flags, sshman opens the interactive profile selector.")
		fmt.Fprintln(os.Stderr, "")
		flag.PrintDefaults()
	}
	flag.Parse()

	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "sshman:", err)
		os.Exit(1)
	}
}

func run() error {
	settings, settingsPath, err := manager.LoadSettings(flagSettings)
	if err != nil {
		if errors.Is(err, manager.ErrSettingsNotFound) || os.IsNotExist(err) {
			settings = manager.DefaultSettings()
		} else {
			return err
		}
	}

	store, err := manager.NewStore(flagStore)
	if err != nil {
		return err
	}

	sshConfigPath := settings.SSHConfigPath()
	if strings.TrimSpace(flagSSHConfig) != "" {
		sshConfigPath = flagSSHConfig
	}

	home, _ := os.UserHomeDir()
	parser := manager.NewSSHConfigParser(home)

	if flagPrintPaths {
		fmt.Println("store:     ", store.Path())
		if settingsPath != "" {
			fmt.Println("settings:  ", settingsPath)
		} else {
			fmt.Println("settings:   (not found, defaults in effect)")
		}
		fmt.Println("ssh config:", sshConfigPath)
		return nil
	}

	if flagList {
		return listProfiles(store)
	}

	if flagImport {
		return importProfiles(store, parser, sshConfigPath)
	}

	if strings.TrimSpace(flagHost) != "" {
		p, ok := findProfile(store, flagHost)
		if !ok {
			return fmt.Errorf("no saved profile named %q", flagHost)
		}
		return connect(p)
	}

	opts := manager.UIOptions{
		InitialQuery:  flagQuery,
		Theme:         manager.ResolveTheme(settings.ThemeName()),
		ConfirmDelete: settings.ShouldConfirmDelete(),
	}
	selected, err := manager.RunTUI(store, parser, sshConfigPath, opts)
	if err != nil {
		return err
	}
	if selected == nil {
		return nil
	}
	return connect(*selected)
}

func listProfiles(store *manager.Store) error {
	profiles := store.List()
	if len(profiles) == 0 {
		fmt.Println("no saved connections")
		return nil
	}
	for _, p := range profiles {
		fmt.Printf("%-24s %s\n", p.Name, p.DisplayTarget())
	}
	return nil
}

func importProfiles(store *manager.Store, parser *manager.SSHConfigParser, sshConfigPath string) error {
	parsed := parser.ParseFile(sshConfigPath)
	doc, added := manager.Reconcile(parsed, store.Load())
	if flagDryRun {
		fmt.Printf("would import %d connection(s) from %s\n", added, sshConfigPath)
		return nil
	}
	if err := store.Save(doc); err != nil {
		return err
	}
	fmt.Printf("imported %d connection(s) from %s\n", added, sshConfigPath)
	return nil
}

// findProfile looks up a saved profile by name, preferring an exact match
// over a case-insensitive one.
func findProfile(store *manager.Store, name string) (manager.Profile, bool) {
	name = strings.TrimSpace(name)
	profiles := store.List()
	for _, p := range profiles {
		if p.Name == name {
			return p, true
		}
	}
	for _, p := range profiles {
		if strings.EqualFold(p.Name, name) {
			return p, true
		}
	}
	return manager.Profile{}, false
}

func connect(p manager.Profile) error {
	argv := p.SSHCommand()
	if flagDryRun {
		fmt.Println(strings.Join(argv, " "))
		return nil
	}
	fmt.Printf("Connecting to %s...\n", p.DisplayTarget())
	return execOrRun(argv, flagExecReplace)
}

// execOrRun either replaces the current process with the command or runs
// it under a PTY so the session behaves like a normal interactive ssh.
func execOrRun(argv []string, replace bool) error {
	if len(argv) == 0 {
		return errors.New("empty command")
	}

	if replace {
		path, err := exec.LookPath(argv[0])
		if err != nil {
			return fmt.Errorf("command not found: %s", argv[0])
		}
		return syscall.Exec(path, argv, os.Environ())
	}

	cmd := exec.Command(argv[0], argv[1:]...)
	ptmx, err := pty.Start(cmd)
	if err != nil {
		return fmt.Errorf("pty start: %w", err)
	}
	defer func() { _ = ptmx.Close() }()

	// Seed the PTY size from the terminal the user is looking at; without
	// this some environments end up with a 0x0 remote terminal.
	if term.IsTerminal(int(os.Stdout.Fd())) {
		if cols, rows, sizeErr := term.GetSize(int(os.Stdout.Fd())); sizeErr == nil && rows > 0 && cols > 0 {
			_ = pty.Setsize(ptmx, &pty.Winsize{
				Rows: uint16(rows),
				Cols: uint16(cols),
			})
		}
	}
	startPTYResizeWatcher(ptmx)

	// Raw mode so keystrokes (arrows, ctrl sequences) pass through to the
	// remote untouched.
	if fd := int(os.Stdin.Fd()); term.IsTerminal(fd) {
		oldState, rawErr := term.MakeRaw(fd)
		if rawErr == nil {
			defer func() { _ = term.Restore(fd, oldState) }()
		}
	}

	go func() {
		_, _ = io.Copy(ptmx, os.Stdin)
	}()
	_, _ = io.Copy(os.Stdout, ptmx)

	return cmd.Wait()
}
