package main

import (
	"bufio"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/nekyl/twob"
)

// Run executes the config command.
func (c *ConfigCmd) Run(deps *Dependencies) error {
	switch {
	case c.Key == "":
		return c.showAll(deps)
	case c.Key == "api_key" && c.Value != "":
		return c.setAPIKey(deps)
	case c.Key == "api_key":
		return c.showAPIKeyStatus(deps)
	case c.Value != "":
		return c.set(deps)
	default:
		return c.show(deps)
	}
}

// setAPIKey stores the key in the keychain, or falls back to insecure
// storage in settings when no keychain backend exists.
func (c *ConfigCmd) setAPIKey(deps *Dependencies) error {
	if err := deps.Credentials.SetAPIKey(c.Value); err == nil {
		_ = deps.Settings.Delete(deps.Ctx, twob.SettingInsecureAPIKey)
		deps.Printer.Success("API key saved securely in your system keychain! ✨")
		_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, "API key stored securely in the keychain.")
		return nil
	}

	// Emergency mode. The key still has to work, so it goes into the
	// settings row until a keychain becomes available.
	if err := deps.Settings.Set(deps.Ctx, twob.SettingInsecureAPIKey, c.Value); err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
		return err
	}
	deps.Printer.Warning("WARNING: your API key was stored INSECURELY because no system keychain is available.")
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, "API key stored insecurely as a fallback.")

	fmt.Fprint(deps.Stdout, "I can start my agent mode to help diagnose the missing keychain service. Continue now? [Y/n] ")
	answer, _ := bufio.NewReader(deps.Stdin).ReadString('\n')
	if isNegative(answer) {
		deps.Printer.Info("Alright. Remember to sort this out later, for your own safety. ❤️")
		return nil
	}
	if deps.Runner == nil {
		deps.Printer.Info("Run: 2b do \"help me figure out why no system keychain service is available on this machine\"")
		return nil
	}
	deps.Printer.Info("Understood! Starting the agent to help you. ✨")
	cmd := &DoCmd{
		Query:    []string{"help", "me", "figure", "out", "why", "no", "system", "keychain", "service", "is", "available", "on", "this", "machine"},
		Timeout:  300,
		MaxSteps: 20,
	}
	return cmd.Run(deps)
}

func isNegative(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "n", "no", "nao", "não", "later", "cancel", "exit":
		return true
	}
	return false
}

func (c *ConfigCmd) showAPIKeyStatus(deps *Dependencies) error {
	deps.Printer.Info("api_key: %s", apiKeyStatus(deps))
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, "API key status queried.")
	return nil
}

// apiKeyStatus never prints the key itself.
func apiKeyStatus(deps *Dependencies) string {
	if key, err := deps.Credentials.APIKey(); err == nil && key != "" {
		return "✔ configured securely in the keychain"
	} else if twob.ErrorCode(err) == twob.EUNAVAILABLE {
		if insecure, _ := deps.Settings.Get(deps.Ctx, twob.SettingInsecureAPIKey); insecure != "" {
			return "⚠ stored INSECURELY (no keychain available)"
		}
		return "⚠ no system keychain available"
	}
	if insecure, _ := deps.Settings.Get(deps.Ctx, twob.SettingInsecureAPIKey); insecure != "" {
		return "⚠ stored INSECURELY"
	}
	return "✖ not configured (run '2b config api_key <key>')"
}

func (c *ConfigCmd) set(deps *Dependencies) error {
	switch c.Key {
	case "personality":
		if _, err := twob.PersonalityByName(c.Value); err != nil {
			deps.Printer.Error("%s", twob.ErrorMessage(err))
			return err
		}
		if err := deps.Settings.Set(deps.Ctx, twob.SettingPersonality, c.Value); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
			return err
		}
		deps.Printer.Success("Personality is now %q. Love it! 😉", c.Value)
		_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, fmt.Sprintf("Personality changed to %q.", c.Value))
	case "user":
		if err := deps.Settings.Set(deps.Ctx, twob.SettingUser, c.Value); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
			return err
		}
		deps.Printer.Success("Got it! From now on I'll call you %s. ❤️", c.Value)
		_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, fmt.Sprintf("User name changed to %q.", c.Value))
	default:
		if err := deps.Settings.Set(deps.Ctx, c.Key, c.Value); err != nil {
			fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
			return err
		}
		deps.Printer.Info("Setting %q updated to %q.", c.Key, c.Value)
	}
	return nil
}

func (c *ConfigCmd) show(deps *Dependencies) error {
	value, err := deps.Settings.Get(deps.Ctx, c.Key)
	if err != nil {
		fmt.Fprintf(deps.Stderr, "error: %s\n", twob.ErrorMessage(err))
		return err
	}
	if c.Key == "user" && value == "" {
		value = twob.DefaultUserName
	}
	if c.Key == "personality" && value == "" {
		value = twob.DefaultPersonality
	}
	if value == "" {
		value = "not set"
	}
	fmt.Fprintf(deps.Stdout, "%s: %s\n", c.Key, value)
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, fmt.Sprintf("Config queried: key %q.", c.Key))
	return nil
}

func (c *ConfigCmd) showAll(deps *Dependencies) error {
	user := mustGet(deps.Ctx, deps.Settings, twob.SettingUser)
	if user == "" {
		user = twob.DefaultUserName
	}
	personality := mustGet(deps.Ctx, deps.Settings, twob.SettingPersonality)
	if personality == "" {
		personality = twob.DefaultPersonality
	}

	w := tabwriter.NewWriter(deps.Stdout, 2, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tVALUE / STATUS")
	fmt.Fprintf(w, "user\t%s\n", user)
	fmt.Fprintf(w, "personality\t%s\n", personality)
	fmt.Fprintf(w, "api_key\t%s\n", apiKeyStatus(deps))
	if err := w.Flush(); err != nil {
		return err
	}

	fmt.Fprintln(deps.Stdout, "\nAvailable personalities:")
	for _, name := range twob.PersonalityNames() {
		fmt.Fprintf(deps.Stdout, "  • %s\n", name)
	}
	_ = deps.History.AddEntry(deps.Ctx, twob.RoleSystemEvent, "All settings queried.")
	return nil
}
