package client

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/MKhiriev/vault-gate/internal/service"
	"github.com/MKhiriev/vault-gate/models"
)

const adminHelp = "admin commands: show, set-pin, role <admin|controlled>, allow <action>, deny <action>, " +
	"window off | window <HH:MM> <HH:MM>, check-in off | check-in <hours>, log, clear-log, back"

func (a *App) adminMenu(ctx context.Context) error {
	pin, err := a.prompter.PasswordPrompt("admin PIN: ")
	if err != nil {
		return err
	}

	admin, err := a.services.Admin.Authorize(ctx, pin)
	if err != nil {
		a.println(errorStyle.Render(err.Error()))
		return err
	}
	a.println(helpStyle.Render(adminHelp))

	for {
		line, err := a.prompter.Prompt("admin> ")
		if err != nil {
			return err
		}
		fields := strings.Fields(line)
		if len(fields) == 0 {
			continue
		}
		if fields[0] == "back" {
			return nil
		}

		if err = a.adminCommand(ctx, admin, fields); err != nil {
			if isLeave(err) {
				return err
			}
			a.println(errorStyle.Render(err.Error()))
		}
	}
}

func (a *App) adminCommand(ctx context.Context, admin service.AdminSession, fields []string) error {
	switch fields[0] {
	case "show":
		settings, err := admin.Settings(ctx)
		if err != nil {
			return err
		}
		a.println(boxStyle.Render(formatSettings(settings)))
		return nil

	case "set-pin":
		current, err := a.prompter.PasswordPrompt("current admin PIN (empty if none): ")
		if err != nil {
			return err
		}
		newPin, err := a.prompter.PasswordPrompt("new admin PIN: ")
		if err != nil {
			return err
		}
		confirmPin, err := a.prompter.PasswordPrompt("repeat admin PIN: ")
		if err != nil {
			return err
		}
		return a.done(admin.SetAdminPin(ctx, current, newPin, confirmPin))

	case "role":
		if len(fields) != 2 {
			break
		}
		role, ok := models.ParseRole(fields[1])
		if !ok {
			return fmt.Errorf("unknown role %s", fields[1])
		}
		return a.done(admin.SetRole(ctx, role))

	case "allow", "deny":
		if len(fields) != 2 {
			break
		}
		action, ok := parseAction(fields[1])
		if !ok {
			return fmt.Errorf("unknown action %s", fields[1])
		}
		return a.done(admin.SetCapability(ctx, action, fields[0] == "allow"))

	case "window":
		window, err := parseWindow(fields[1:])
		if err != nil {
			return err
		}
		return a.done(admin.SetAccessWindow(ctx, window))

	case "check-in":
		if len(fields) != 2 {
			break
		}
		if fields[1] == "off" {
			state := a.services.AccessGate.CheckIn(ctx)
			return a.done(admin.SetCheckIn(ctx, false, state.IntervalHours))
		}
		hours, err := strconv.Atoi(fields[1])
		if err != nil {
			return fmt.Errorf("%w: interval %q", service.ErrConfiguration, fields[1])
		}
		return a.done(admin.SetCheckIn(ctx, true, hours))

	case "log":
		entries, err := admin.AuditLog(ctx)
		if err != nil {
			return err
		}
		a.printLog(entries)
		return nil

	case "clear-log":
		return a.done(admin.ClearAuditLog(ctx))
	}

	a.println(helpStyle.Render(adminHelp))
	return nil
}

func (a *App) done(err error) error {
	if err == nil {
		a.println(infoStyle.Render("saved"))
	}
	return err
}

func parseWindow(args []string) (models.AccessWindow, error) {
	if len(args) == 1 && args[0] == "off" {
		return models.AccessWindow{}, nil
	}
	if len(args) != 2 {
		return models.AccessWindow{}, fmt.Errorf("%w: expected window <HH:MM> <HH:MM>", service.ErrConfiguration)
	}

	start, err := parseMinuteOfDay(args[0])
	if err != nil {
		return models.AccessWindow{}, err
	}
	end, err := parseMinuteOfDay(args[1])
	if err != nil {
		return models.AccessWindow{}, err
	}
	return models.AccessWindow{Enabled: true, StartMinute: start, EndMinute: end}, nil
}

func parseMinuteOfDay(s string) (int, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, fmt.Errorf("%w: time %q", service.ErrConfiguration, s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func formatSettings(s models.AdminSettings) string {
	var b strings.Builder

	fmt.Fprintf(&b, "admin PIN set: %t\n", s.HasAdminPin)
	fmt.Fprintf(&b, "role: %s\n", s.Role)
	for _, action := range models.AllActions {
		fmt.Fprintf(&b, "  %-15s %t\n", action, s.Capabilities.Allows(action))
	}
	if s.AccessWindow.Enabled {
		fmt.Fprintf(&b, "access window: %s\n", s.AccessWindow)
	} else {
		b.WriteString("access window: off\n")
	}
	if s.CheckIn.Required {
		fmt.Fprintf(&b, "check-in: every %d hours", s.CheckIn.IntervalHours)
	} else {
		b.WriteString("check-in: off")
	}
	return b.String()
}
