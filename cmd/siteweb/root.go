package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/siyuanink/siteweb"
)

var cfgFile string

var rootCmd = &cobra.Command{
	Use:   "siteweb",
	Short: "siteweb - a personal website built with Go, Echo and templ",
	Long: `siteweb serves a Markdown blog, photo and project pages backed by a
remote API, a few browser tools, and key-gated admin panels.`,
	SilenceUsage: true,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the siteweb version",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Fprintf(cmd.OutOrStdout(), "siteweb %s\n", version)
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ./config.yaml)")
	rootCmd.AddCommand(versionCmd, serveCmd, newPostCmd, messagesCmd)
}

// configDefaults mirrors SiteConfig's defaults so every key is known to
// viper and can be overridden from the environment.
var configDefaults = map[string]any{
	"name":                "Siyuan",
	"url":                 "http://localhost:3000",
	"description":         "",
	"author":              "",
	"addr":                ":3000",
	"database_path":       "data/site.db",
	"content_dir":         "content/blog",
	"static_dir":          "public",
	"api_url":             "http://localhost:8000",
	"api_timeout":         "10s",
	"session_secret":      "",
	"cookie_secure":       false,
	"default_preview_url": "https://siyuan.ink",
}

// newViper reads the optional config file and SITE_* environment variables.
func newViper() (*viper.Viper, error) {
	v := viper.New()
	for k, val := range configDefaults {
		v.SetDefault(k, val)
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("SITE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) || cfgFile != "" {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}
	return v, nil
}

func decodeConfig(v *viper.Viper) (siteweb.SiteConfig, error) {
	var cfg siteweb.SiteConfig
	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("unable to decode config into struct: %w", err)
	}
	return cfg, nil
}

func loadConfig() (*viper.Viper, siteweb.SiteConfig, error) {
	v, err := newViper()
	if err != nil {
		return nil, siteweb.SiteConfig{}, err
	}
	cfg, err := decodeConfig(v)
	return v, cfg, err
}
