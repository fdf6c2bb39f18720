package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	mock_importer "github.com/hmatsuda/quizfolio/internal/mocks/importer"
	"github.com/hmatsuda/quizfolio/internal/question"
	"github.com/hmatsuda/quizfolio/internal/storage"
	"github.com/hmatsuda/quizfolio/internal/testutil"
)

const importCSV = `topic,question,option1,option2,option3,option4,correct_answer,explanation,keywords,difficulty
IAM,Which resource grants permissions?,Role,Policy,Group,Folder,Role,Roles bundle permissions.,iam,beginner
Storage,Which class is cheapest?,Standard,Archive,,,Archive,,storage;cost,beginner
Broken,Only one option,Solo,,,,Solo,,,beginner
`

func TestNewImportFileCommand_RunE(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	setConfigFile(t, cfgPath)

	csvPath := filepath.Join(tmpDir, "questions.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte(importCSV), 0644))

	cmd := newImportFileCommand()
	cmd.SetArgs([]string{csvPath})
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())

	assert.Contains(t, out.String(), "Imported 2 of 3 questions")
	assert.Contains(t, out.String(), "record 3:")
}

func TestNewImportFileCommand_RunE_MissingFile(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	setConfigFile(t, cfgPath)

	cmd := newImportFileCommand()
	cmd.SetArgs([]string{filepath.Join(tmpDir, "missing.csv")})
	err := cmd.Execute()
	assert.Error(t, err)
}

func TestRunImportURL(t *testing.T) {
	tests := []struct {
		name            string
		setup           func(fetcher *mock_importer.MockFetcher)
		wantOutContains string
		wantErrContains string
	}{
		{
			name: "json file imported",
			setup: func(fetcher *mock_importer.MockFetcher) {
				payload := `[{"topic":"IAM","text":"Which resource grants permissions?","options":["Role","Policy"],"correct_answer":"Role"}]`
				fetcher.EXPECT().Fetch(gomock.Any(), "https://example.com/questions.json").
					Return([]byte(payload), "questions.json", nil)
			},
			wantOutContains: "Imported 1 of 1 questions",
		},
		{
			name: "fetch failure propagates",
			setup: func(fetcher *mock_importer.MockFetcher) {
				fetcher.EXPECT().Fetch(gomock.Any(), "https://example.com/questions.json").
					Return(nil, "", fmt.Errorf("connection refused"))
			},
			wantErrContains: "connection refused",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()
			fetcher := mock_importer.NewMockFetcher(ctrl)
			tt.setup(fetcher)

			repo, err := question.NewRepository(storage.NewMemoryStore(0))
			require.NoError(t, err)

			cmd := &cobra.Command{}
			var out bytes.Buffer
			cmd.SetOut(&out)

			err = runImportURL(cmd, repo, fetcher, "https://example.com/questions.json")
			if tt.wantErrContains != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErrContains)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.wantOutContains)
		})
	}
}

func TestNewImportTemplateCommand_RunE(t *testing.T) {
	tests := []struct {
		name            string
		format          string
		wantOutContains string
		wantErr         bool
	}{
		{
			name:            "csv template",
			format:          "csv",
			wantOutContains: "topic,question,option1",
		},
		{
			name:            "json template",
			format:          "json",
			wantOutContains: `"correct_answer"`,
		},
		{
			name:    "unsupported format",
			format:  "xml",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newImportTemplateCommand()
			cmd.SetArgs([]string{tt.format})
			var out bytes.Buffer
			cmd.SetOut(&out)

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Contains(t, out.String(), tt.wantOutContains)
		})
	}
}

func TestNewImportBatchesCommand_RunE_Empty(t *testing.T) {
	tmpDir := t.TempDir()
	cfgPath := testutil.SetupTestConfig(t, tmpDir)
	setConfigFile(t, cfgPath)

	cmd := newImportBatchesCommand()
	cmd.SetArgs([]string{})
	var out bytes.Buffer
	cmd.SetOut(&out)
	require.NoError(t, cmd.Execute())
	assert.Contains(t, out.String(), "0 batches")
}
