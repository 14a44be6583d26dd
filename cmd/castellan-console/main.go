// Package main is the entry point for the Castellan console, an
// interactive stand-in for the browser UI: sign in, register, edit your
// profile, and manage the user directory from a terminal prompt.
package main

import (
	"bufio"
	"context"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/rs/zerolog"

	"github.com/prn-tf/castellan/internal/config"
	"github.com/prn-tf/castellan/internal/directory"
	"github.com/prn-tf/castellan/internal/domain"
	"github.com/prn-tf/castellan/internal/forms"
	"github.com/prn-tf/castellan/internal/guard"
	"github.com/prn-tf/castellan/internal/notify"
	"github.com/prn-tf/castellan/internal/pkg/logging"
	"github.com/prn-tf/castellan/internal/seed"
	"github.com/prn-tf/castellan/internal/session"
	"github.com/prn-tf/castellan/internal/session/slot"
)

// Version information (set at build time)
var (
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

// console bundles everything a command needs.
type console struct {
	sess      *session.Store
	dir       *directory.Store
	validator *forms.Validator
	toasts    *notify.Recorder
	logger    zerolog.Logger
}

func main() {
	configPath := flag.String("config", "", "path to config file")
	showVersion := flag.Bool("version", false, "print version information")
	flag.Parse()

	if *showVersion {
		fmt.Printf("Castellan Console\n")
		fmt.Printf("Version: %s\n", Version)
		fmt.Printf("Build Time: %s\n", BuildTime)
		fmt.Printf("Git Commit: %s\n", GitCommit)
		return
	}

	cfg := config.MustLoad(*configPath)
	logger := logging.New(cfg.Logging.Level, cfg.Logging.Format)

	ctx := context.Background()

	sl, err := slot.Open(ctx, cfg.Slot.Build(), logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to open session slot")
	}
	defer sl.Close()

	toasts := notify.NewRecorder()
	notifier := notify.Counted{Next: toasts}

	var seedUsers []*domain.User
	if cfg.Seed.Enabled {
		seedUsers = seed.Users()
	}
	dir := directory.NewStore(seedUsers, cfg.Latency.DirectoryDelays(), notifier, logger)
	sess := session.NewStore(dir, sl, session.Config{
		SentinelPassword: cfg.Session.SentinelPassword,
		Delay:            cfg.Latency.SessionDelay(),
	}, notifier, logger)

	sess.Restore(ctx)

	c := &console{
		sess:      sess,
		dir:       dir,
		validator: forms.NewValidator(),
		toasts:    toasts,
		logger:    logger,
	}

	fmt.Println("Castellan user-management console. Type 'help' for commands.")
	if u := sess.CurrentUser(); u != nil {
		fmt.Printf("Restored session for %s <%s>\n", u.Username, u.Email)
	}

	scanner := bufio.NewScanner(os.Stdin)
	for {
		fmt.Print("> ")
		if !scanner.Scan() {
			break
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		args := strings.Fields(line)
		if args[0] == "exit" || args[0] == "quit" {
			break
		}
		c.run(ctx, args[0], args[1:])
		c.printToasts()
	}
}

// run dispatches a single command.
func (c *console) run(ctx context.Context, cmd string, args []string) {
	switch cmd {
	case "help":
		printUsage()

	case "login":
		if len(args) != 2 {
			fmt.Println("usage: login <email> <password>")
			return
		}
		form := forms.LoginForm{Email: args[0], Password: args[1]}
		if err := c.validator.Validate(form); err != nil {
			fmt.Println(err)
			return
		}
		c.sess.Login(ctx, form.Email, form.Password)

	case "register":
		if len(args) != 4 {
			fmt.Println("usage: register <username> <email> <password> <confirm>")
			return
		}
		form := forms.RegisterForm{Username: args[0], Email: args[1], Password: args[2], ConfirmPassword: args[3]}
		if err := c.validator.Validate(form); err != nil {
			fmt.Println(err)
			return
		}
		c.sess.Register(ctx, form.Username, form.Email, form.Password)

	case "logout":
		c.sess.Logout(ctx)

	case "whoami":
		if !c.guardTo(guard.Requirement{}) {
			return
		}
		u := c.sess.CurrentUser()
		fmt.Printf("#%d %s <%s> role=%s active=%v\n", u.ID, u.Username, u.Email, u.Role, u.Active)

	case "profile":
		if !c.guardTo(guard.Requirement{}) {
			return
		}
		if len(args) != 2 {
			fmt.Println("usage: profile <username> <email>")
			return
		}
		form := forms.ProfileForm{Username: args[0], Email: args[1]}
		if err := c.validator.Validate(form); err != nil {
			fmt.Println(err)
			return
		}
		c.sess.UpdateProfile(ctx, session.UpdateProfileInput{Username: &form.Username, Email: &form.Email})

	case "refresh":
		c.sess.Refresh(ctx)

	case "users":
		if !c.guardTo(guard.Requirement{Role: domain.RoleAdmin}) {
			return
		}
		users, err := c.dir.List(ctx)
		if err != nil {
			fmt.Println(err)
			return
		}
		if len(args) > 0 {
			users = directory.Filter(users, strings.Join(args, " "))
		}
		for _, u := range users {
			status := "active"
			if !u.Active {
				status = "inactive"
			}
			fmt.Printf("#%d %-12s %-24s %-5s %s\n", u.ID, u.Username, u.Email, u.Role, status)
		}

	case "create":
		if !c.guardTo(guard.Requirement{Role: domain.RoleAdmin}) {
			return
		}
		if len(args) != 3 {
			fmt.Println("usage: create <username> <email> <role>")
			return
		}
		form := forms.CreateUserForm{Username: args[0], Email: args[1], Role: args[2]}
		if err := c.validator.Validate(form); err != nil {
			fmt.Println(err)
			return
		}
		role, err := domain.ParseRole(form.Role)
		if err != nil {
			fmt.Println(err)
			return
		}
		c.dir.Create(ctx, directory.CreateInput{Username: form.Username, Email: form.Email, Role: role})

	case "update":
		if !c.guardTo(guard.Requirement{Role: domain.RoleAdmin}) {
			return
		}
		// Fields given as "-" are left unchanged.
		if len(args) != 4 {
			fmt.Println("usage: update <id> <username|-> <email|-> <role|->")
			return
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Println("id must be a number")
			return
		}
		var input directory.UpdateInput
		if args[1] != "-" {
			input.Username = &args[1]
		}
		if args[2] != "-" {
			input.Email = &args[2]
		}
		if args[3] != "-" {
			role, err := domain.ParseRole(args[3])
			if err != nil {
				fmt.Println(err)
				return
			}
			input.Role = &role
		}
		c.dir.Update(ctx, id, input)

	case "delete", "toggle", "reset":
		if !c.guardTo(guard.Requirement{Role: domain.RoleAdmin}) {
			return
		}
		if len(args) != 1 {
			fmt.Printf("usage: %s <id>\n", cmd)
			return
		}
		id, err := strconv.ParseInt(args[0], 10, 64)
		if err != nil {
			fmt.Println("id must be a number")
			return
		}
		switch cmd {
		case "delete":
			c.dir.Delete(ctx, id)
		case "toggle":
			c.dir.ToggleStatus(ctx, id)
		case "reset":
			c.dir.ResetPassword(ctx, id)
		}

	default:
		fmt.Printf("unknown command: %s (try 'help')\n", cmd)
	}
}

// guardTo applies the route guard and tells the user where they ended
// up when the view is not allowed.
func (c *console) guardTo(req guard.Requirement) bool {
	var role domain.Role
	if u := c.sess.CurrentUser(); u != nil {
		role = u.Role
	}
	switch guard.Check(c.sess.IsAuthenticated(), role, req) {
	case guard.Allow:
		return true
	case guard.RedirectLogin:
		fmt.Println("not signed in - use 'login <email> <password>'")
	case guard.RedirectProfile:
		fmt.Println("admin role required - back to your profile ('whoami')")
	}
	return false
}

// printToasts drains and prints the notifications emitted since the
// last command.
func (c *console) printToasts() {
	for _, n := range c.toasts.Drain() {
		mark := "OK "
		if !n.OK {
			mark = "ERR"
		}
		fmt.Printf("[%s] %s\n", mark, n.Message)
	}
}

func printUsage() {
	fmt.Println(`Castellan Console

Session:
  login <email> <password>                  Sign in (demo password: "password")
  register <username> <email> <pw> <pw>     Create an account and sign in
  logout                                    Sign out
  whoami                                    Show the current profile
  profile <username> <email>                Update the current profile
  refresh                                   Re-read the directory copy of your account

Administration (admin role required):
  users [query]                             List accounts, optionally filtered
  create <username> <email> <role>          Create an account (role: user|admin)
  update <id> <username|-> <email|-> <role|->  Update fields ("-" keeps current)
  delete <id>                               Remove an account
  toggle <id>                               Activate/deactivate an account
  reset <id>                                Send a password-reset link

Other:
  help                                      Show this help message
  exit                                      Leave the console`)
}
