package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.ini")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, key := range []string{"TG_API_ID", "TG_API_HASH", "TG_PHONE_NUMBER"} {
		t.Setenv(key, "")
	}
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name    string
		content string
		env     map[string]string
		want    *Config
		wantErr bool
	}{
		{
			name: "full config",
			content: `[telegram]
api_id = 12345
api_hash = abcdef0123456789
phone_number = +15550001111

[settings]
session_name = my-session
default_master_list_output = my_chats
default_folder_output = my_folders
log_file = debug.log
`,
			want: &Config{
				ApiId:            12345,
				ApiHash:          "abcdef0123456789",
				PhoneNumber:      "+15550001111",
				SessionName:      "my-session",
				MasterListOutput: "my_chats",
				FolderOutput:     "my_folders",
				LogFile:          "debug.log",
			},
		},
		{
			name: "settings defaults applied",
			content: `[telegram]
api_id = 12345
api_hash = abcdef
phone_number = +15550001111
`,
			want: &Config{
				ApiId:            12345,
				ApiHash:          "abcdef",
				PhoneNumber:      "+15550001111",
				SessionName:      "tgexport-session",
				MasterListOutput: "master_chat_list",
				FolderOutput:     "folder_export",
			},
		},
		{
			name: "missing api_hash",
			content: `[telegram]
api_id = 12345
phone_number = +15550001111
`,
			wantErr: true,
		},
		{
			name: "api_id not a number",
			content: `[telegram]
api_id = notanumber
api_hash = abcdef
phone_number = +15550001111
`,
			wantErr: true,
		},
		{
			name: "env overrides file values",
			content: `[telegram]
api_id = 111
api_hash = from-file
phone_number = +15550001111
`,
			env: map[string]string{
				"TG_API_ID":   "999",
				"TG_API_HASH": "from-env",
			},
			want: &Config{
				ApiId:            999,
				ApiHash:          "from-env",
				PhoneNumber:      "+15550001111",
				SessionName:      "tgexport-session",
				MasterListOutput: "master_chat_list",
				FolderOutput:     "folder_export",
			},
		},
		{
			name: "invalid env api id",
			content: `[telegram]
api_id = 111
api_hash = abcdef
phone_number = +15550001111
`,
			env:     map[string]string{"TG_API_ID": "nope"},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			got, err := Load(writeConfig(t, tt.content))
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.want, got); diff != "" {
				t.Errorf("Load() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.ini")); err == nil {
		t.Fatal("expected error for missing config file, got nil")
	}
}
