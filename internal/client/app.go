package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/MKhiriev/vault-gate/internal/config"
	"github.com/MKhiriev/vault-gate/internal/logger"
	"github.com/MKhiriev/vault-gate/internal/policy"
	"github.com/MKhiriev/vault-gate/internal/service"
	"github.com/MKhiriev/vault-gate/models"
	"github.com/peterh/liner"
)

const vaultHelp = "commands: check-in, change-pin, allowed <action>, admin, log, quit"

type App struct {
	services     *service.Services
	prompter     Prompter
	out          io.Writer
	entry        models.EntryPoint
	pollInterval time.Duration
	buildInfo    models.AppBuildInfo
	logger       *logger.Logger
}

// NewApp builds the terminal driver. Output goes to out; input comes from
// prompter, which App does not close.
func NewApp(
	services *service.Services,
	prompter Prompter,
	out io.Writer,
	workersCfg config.Workers,
	buildInfo models.AppBuildInfo,
	log *logger.Logger,
) (*App, error) {
	if services == nil {
		return nil, errors.New("services are required")
	}
	if prompter == nil {
		return nil, errors.New("prompter is required")
	}
	if log == nil {
		log = logger.Nop()
	}

	return &App{
		services:     services,
		prompter:     prompter,
		out:          out,
		entry:        models.EntryLauncher,
		pollInterval: workersCfg.LockoutPollInterval,
		buildInfo:    buildInfo,
		logger:       log,
	}, nil
}

// WithEntryPoint selects the entry path reported to the session.
func (a *App) WithEntryPoint(entry models.EntryPoint) *App {
	a.entry = entry
	return a
}

// Run drives one session until the user quits, the input ends or access is
// denied.
func (a *App) Run(ctx context.Context) error {
	a.println(boxStyle.Render(titleStyle.Render("vault-gate") + "\n" + helpStyle.Render(a.buildInfo.String())))

	session := a.services.NewSession()
	defer session.Close()
	ctx = a.logger.WithSession(ctx, session.ID())

	res, err := session.Enter(ctx, a.entry)
	a.show(res, err)

	for {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		state := session.CurrentState()
		switch {
		case state.AcceptsInput():
			pin, err := a.prompter.PasswordPrompt(pinPrompt(state))
			if err != nil {
				return a.leave(err)
			}
			res, err = session.Submit(ctx, pin)
			a.show(res, err)
			if err == nil && res.Has(models.SignalPinExpired) {
				if err = a.forcePinChange(ctx, session); err != nil {
					return a.leave(err)
				}
			}

		case state == models.StateLockedOut:
			if err = a.waitLockout(ctx, session); err != nil {
				return err
			}

		case state == models.StateUnlocked:
			quit, err := a.vaultCommand(ctx, session)
			if err != nil {
				return a.leave(err)
			}
			if quit {
				return nil
			}

		case state == models.StateCheckInRequired:
			line, err := a.prompter.Prompt("check-in required, type check-in or quit> ")
			if err != nil {
				return a.leave(err)
			}
			switch strings.TrimSpace(line) {
			case "check-in":
				res, err = session.ConfirmCheckIn(ctx)
				a.show(res, err)
			case "quit":
				return nil
			}

		case state == models.StateWiped:
			// the vault is gone; start over from setup
			res, err = session.Enter(ctx, a.entry)
			a.show(res, err)
			if err != nil {
				return err
			}

		case state == models.StateAccessDenied:
			return nil

		default:
			return fmt.Errorf("%w: %s", service.ErrInvalidState, state)
		}
	}
}

func (a *App) vaultCommand(ctx context.Context, session service.AuthSessionController) (bool, error) {
	line, err := a.prompter.Prompt("vault> ")
	if err != nil {
		return false, err
	}
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return false, nil
	}

	switch fields[0] {
	case "quit", "exit":
		return true, nil
	case "check-in":
		res, err := session.ConfirmCheckIn(ctx)
		a.show(res, err)
		a.showCheckInDue(ctx)
	case "change-pin":
		if err = a.changePin(ctx, session); err != nil && isLeave(err) {
			return false, err
		}
	case "allowed":
		if len(fields) != 2 {
			a.println(helpStyle.Render("usage: allowed <action>"))
			break
		}
		action, ok := parseAction(fields[1])
		if !ok {
			a.println(errorStyle.Render("unknown action " + fields[1]))
			break
		}
		a.println(infoStyle.Render(fmt.Sprintf("%s: %t", action, session.IsActionAllowed(ctx, action))))
	case "admin":
		if err = a.adminMenu(ctx); err != nil && isLeave(err) {
			return false, err
		}
	case "log":
		entries, err := session.AuditLog(ctx)
		if err != nil {
			a.println(errorStyle.Render(err.Error()))
			break
		}
		a.printLog(entries)
	default:
		a.println(helpStyle.Render(vaultHelp))
	}

	res, err := session.Poll(ctx)
	if err == nil && res.State == models.StateCheckInRequired {
		a.show(res, nil)
	}
	return false, nil
}

func (a *App) changePin(ctx context.Context, session service.AuthSessionController) error {
	oldPin, err := a.prompter.PasswordPrompt("current PIN: ")
	if err != nil {
		return err
	}
	newPin, err := a.prompter.PasswordPrompt("new PIN: ")
	if err != nil {
		return err
	}
	confirmPin, err := a.prompter.PasswordPrompt("repeat new PIN: ")
	if err != nil {
		return err
	}

	if err = session.ChangePin(ctx, oldPin, newPin, confirmPin); err != nil {
		a.println(errorStyle.Render(err.Error()))
		return err
	}
	a.println(infoStyle.Render("PIN changed"))
	return nil
}

// forcePinChange repeats the PIN change until it succeeds or the user leaves.
func (a *App) forcePinChange(ctx context.Context, session service.AuthSessionController) error {
	for {
		err := a.changePin(ctx, session)
		if err == nil || isLeave(err) || errors.Is(err, service.ErrPermissionDenied) {
			return err
		}
	}
}

// waitLockout runs the countdown until the session leaves LOCKED_OUT.
func (a *App) waitLockout(ctx context.Context, session service.AuthSessionController) error {
	interval := a.pollInterval
	if interval <= 0 {
		interval = service.DefaultCountdownInterval
	}

	ended := a.services.Countdown.Start(ctx, session, interval, func(res models.SubmitResult) {
		if res.State == models.StateLockedOut {
			fmt.Fprintf(a.out, "\r%s", warnStyle.Render(fmt.Sprintf("locked, %d s left ", res.RemainingSeconds)))
		}
	})
	defer a.services.Countdown.Stop()

	select {
	case err := <-ended:
		a.println("")
		if err != nil {
			return fmt.Errorf("lockout countdown: %w", err)
		}
		if err = ctx.Err(); err != nil {
			return err
		}
		a.println(infoStyle.Render("You can try again"))
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (a *App) showCheckInDue(ctx context.Context) {
	state := a.services.AccessGate.CheckIn(ctx)
	if !state.Required {
		return
	}
	now := a.services.Clock().Now()
	a.println(helpStyle.Render(fmt.Sprintf("Due in %dh", policy.HoursUntilDue(now, state))))
}

func (a *App) show(res models.SubmitResult, err error) {
	switch {
	case res.Has(models.SignalWiped):
		a.println(errorStyle.Render(res.Message))
	case err != nil && res.Message != "":
		a.println(warnStyle.Render(res.Message))
	case err != nil:
		a.println(errorStyle.Render(err.Error()))
	case res.Message != "":
		a.println(infoStyle.Render(res.Message))
	}
}

func (a *App) printLog(entries []models.AuditEntry) {
	if len(entries) == 0 {
		a.println(helpStyle.Render("access log is empty"))
		return
	}
	for _, e := range entries {
		a.println(helpStyle.Render(e.Timestamp.Format(time.DateTime)) + "  " + e.Description)
	}
}

func (a *App) println(s string) {
	fmt.Fprintln(a.out, s)
}

// leave turns the end of input into a clean exit.
func (a *App) leave(err error) error {
	if isLeave(err) {
		a.println("")
		return nil
	}
	return err
}

func isLeave(err error) bool {
	return errors.Is(err, io.EOF) || errors.Is(err, liner.ErrPromptAborted)
}

func pinPrompt(state models.SessionState) string {
	switch state {
	case models.StateSetupAwaitFirst:
		return "new PIN: "
	case models.StateSetupAwaitConfirm:
		return "repeat PIN: "
	default:
		return "PIN: "
	}
}

func parseAction(name string) (models.Action, bool) {
	for _, action := range models.AllActions {
		if action.String() == name {
			return action, true
		}
	}
	return 0, false
}
