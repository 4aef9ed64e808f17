// Package config reads the ini configuration file and optional
// environment overrides for the Telegram credentials.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/samber/oops"
	"gopkg.in/ini.v1"
)

type Config struct {
	ApiId       int32
	ApiHash     string
	PhoneNumber string

	SessionName      string
	MasterListOutput string
	FolderOutput     string
	LogFile          string
}

// Load reads the config file at path, applies TG_* environment overrides
// and validates the credentials. A .env file in the working directory is
// picked up first so secrets can be kept out of the ini file.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, oops.With("path", path).Errorf("config file does not exist")
	}

	f, err := ini.Load(path)
	if err != nil {
		return nil, oops.With("path", path).Wrapf(err, "failed to parse config file")
	}

	tg := f.Section("telegram")
	settings := f.Section("settings")

	cfg := &Config{
		ApiId:            int32(tg.Key("api_id").MustInt(0)),
		ApiHash:          tg.Key("api_hash").String(),
		PhoneNumber:      tg.Key("phone_number").String(),
		SessionName:      settings.Key("session_name").MustString("tgexport-session"),
		MasterListOutput: settings.Key("default_master_list_output").MustString("master_chat_list"),
		FolderOutput:     settings.Key("default_folder_output").MustString("folder_export"),
		LogFile:          settings.Key("log_file").String(),
	}

	if v := os.Getenv("TG_API_ID"); v != "" {
		id, err := strconv.ParseInt(v, 10, 32)
		if err != nil {
			return nil, oops.With("TG_API_ID", v).Wrapf(err, "TG_API_ID is not a valid number")
		}
		cfg.ApiId = int32(id)
	}
	if v := os.Getenv("TG_API_HASH"); v != "" {
		cfg.ApiHash = v
	}
	if v := os.Getenv("TG_PHONE_NUMBER"); v != "" {
		cfg.PhoneNumber = v
	}

	if cfg.ApiId == 0 {
		return nil, oops.Errorf("api_id is missing or not a valid number")
	}
	if cfg.ApiHash == "" {
		return nil, oops.Errorf("api_hash is missing")
	}
	if cfg.PhoneNumber == "" {
		return nil, oops.Errorf("phone_number is missing")
	}

	return cfg, nil
}
