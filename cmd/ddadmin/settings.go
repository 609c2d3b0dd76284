package main

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	clientsettings "github.com/alimahjoub5/Due-Diligence-Project/internal/client/settings"
	"github.com/alimahjoub5/Due-Diligence-Project/internal/domain/models"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func settingsStore() *clientsettings.Store {
	s := clientsettings.New(api, store, logger)
	s.Reconciled = func(discarded, current models.SiteSettings) {
		warn("Your offline settings edit (version %d) was discarded; the server copy (version %d) is now cached.",
			discarded.Version, current.Version)
	}
	return s
}

var settingsCmd = &cobra.Command{
	Use:     "settings",
	Short:   "Show or edit the site settings",
	GroupID: "site",
}

var settingsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the site settings (falls back to the local cache offline)",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, src := settingsStore().Resolve(cmd.Context())
		if src != clientsettings.SourceRemote {
			warn("server unreachable; showing %s", src)
		}
		if jsonOutput {
			return printJSON(s)
		}
		values := s.ToValues()
		w := newTable("KEY", "VALUE")
		for _, k := range models.SiteSettingKeys() {
			fmt.Fprintf(w, "%s\t%s\n", k, values[k].AsString())
		}
		fmt.Fprintf(w, "version\t%d\n", s.Version)
		return w.Flush()
	},
}

// applySetting sets one SiteSettings field by its key.
func applySetting(s *models.SiteSettings, key, value string) error {
	values := s.ToValues()
	key = models.NormalizeSettingKey(key)
	if _, ok := values[key]; !ok {
		return fmt.Errorf("unknown setting %q", key)
	}
	if key == models.KeyMaintenanceMode {
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("maintenance_mode must be true or false")
		}
		values[key] = models.BoolValue(b)
	} else {
		values[key] = models.StringValue(value)
	}
	version, updated := s.Version, s.UpdatedAt
	*s = models.SiteSettingsFromValues(values)
	s.Version, s.UpdatedAt = version, updated
	return nil
}

// updateSettings reads the current settings, applies edit and saves.
func updateSettings(cmd *cobra.Command, edit func(*models.SiteSettings) error) error {
	st := settingsStore()
	s, src := st.Resolve(cmd.Context())
	if err := edit(&s); err != nil {
		return err
	}
	if err := st.Update(cmd.Context(), s); err != nil {
		return printFieldErrors(err)
	}
	if e, ok := st.Cached(); ok && e.Pending {
		warn("server unreachable (read from %s); the edit is saved locally and will be replaced by the server copy on the next successful read", src)
		return nil
	}
	logger.Debug("settings saved", zap.Int64("version", s.Version+1))
	fmt.Println("Settings saved")
	return nil
}

var settingsSetCmd = &cobra.Command{
	Use:     "set key=value...",
	Short:   "Change one or more settings",
	Args:    cobra.MinimumNArgs(1),
	PreRunE: requireLogin,
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateSettings(cmd, func(s *models.SiteSettings) error {
			for _, a := range args {
				k, v, ok := strings.Cut(a, "=")
				if !ok {
					return fmt.Errorf("expected key=value, got %q", a)
				}
				if err := applySetting(s, k, v); err != nil {
					return err
				}
			}
			return nil
		})
	},
}

var settingsCacheCmd = &cobra.Command{
	Use:   "cache",
	Short: "Show the locally cached settings entry",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, ok := settingsStore().Cached()
		if !ok {
			fmt.Println("no cached settings")
			return nil
		}
		b, _ := json.MarshalIndent(e, "", "  ")
		fmt.Println(string(b))
		return nil
	},
}

var maintenanceCmd = &cobra.Command{
	Use:       "maintenance [on|off]",
	Short:     "Show or toggle maintenance mode",
	GroupID:   "site",
	Args:      cobra.MaximumNArgs(1),
	ValidArgs: []string{"on", "off"},
	RunE: func(cmd *cobra.Command, args []string) error {
		if len(args) == 0 {
			s := settingsStore().Get(cmd.Context())
			state := "off"
			if s.MaintenanceMode {
				state = "on"
			}
			fmt.Println("maintenance mode:", highlight(state))
			return nil
		}
		if err := gate.Require(); err != nil {
			return err
		}
		on := args[0] == "on"
		if !on && args[0] != "off" {
			return fmt.Errorf("expected on or off, got %q", args[0])
		}
		return updateSettings(cmd, func(s *models.SiteSettings) error {
			s.MaintenanceMode = on
			return nil
		})
	},
}

func init() {
	settingsCmd.AddCommand(settingsShowCmd, settingsSetCmd, settingsCacheCmd)
}
