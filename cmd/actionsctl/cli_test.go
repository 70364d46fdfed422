package main

import (
	"bytes"
	"context"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/network-actions-api/internal/models"
	"github.com/noah-isme/network-actions-api/internal/service"
)

const testReference = `
departments:
  - code: math
    name: Mathematics
families:
  - code: ifc
    name: Computing
groups:
  - id: g1
    name: 1st DAW
    family: ifc
objectives:
  - id: ods4
    name: Quality Education
networks:
  - code: north
    name: North Network
centers:
  - code: c1
    name: Center One
    network: north
academicYear:
  id: "2024"
  name: 2024-2025
  quarters:
    - id: Q1
      name: First quarter
      isActive: true
    - id: Q2
      name: Second quarter
`

const testActions = `
actions:
  - id: a1
    name: Robotics fair
    startDate: 2024-10-10
    endDate: 2024-10-12
    quarter: Q1
    network: north
    center: c1
    departments: [math]
    objectives: [ods4]
    studentParticipants: 20
    teacherParticipants: 2
  - id: a2
    name: Reading club
    quarter: Q2
    network: south
`

func writeFixture(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return path
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	logger = zap.NewNop()
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	return cmd, out
}

func TestTokenCmd(t *testing.T) {
	cmd, out := newTestCmd()
	opts := &tokenOptions{role: "manager", secret: "s3cret", issuer: "actionsctl-test", ttl: time.Hour}
	opts.UserID = "m1"
	opts.Network = "north"
	opts.Center = "c1"

	if err := runToken(cmd, opts); err != nil {
		t.Fatalf("runToken failed: %v", err)
	}

	auth := service.NewAuthService(nil, nil, service.AuthConfig{AccessTokenSecret: "s3cret", Issuer: "actionsctl-test"})
	claims, err := auth.ValidateToken(strings.TrimSpace(out.String()))
	if err != nil {
		t.Fatalf("issued token does not validate: %v", err)
	}
	want := models.Identity{ID: "m1", Role: models.RoleManager, Network: "north", Center: "c1"}
	if diff := cmp.Diff(want, claims.Identity()); diff != "" {
		t.Errorf("identity mismatch (-want +got):\n%s", diff)
	}
}

func TestTokenCmdRejectsUnknownRole(t *testing.T) {
	cmd, _ := newTestCmd()
	opts := &tokenOptions{role: "janitor", secret: "s", issuer: "i", ttl: time.Minute}
	opts.UserID = "u1"
	if err := runToken(cmd, opts); err == nil {
		t.Fatal("expected unknown role to fail")
	}
}

func TestExportCmdWritesCSV(t *testing.T) {
	cmd, out := newTestCmd()
	target := filepath.Join(t.TempDir(), "report.csv")
	opts := &exportOptions{
		actionsFile:   writeFixture(t, "actions.yaml", testActions),
		referenceFile: writeFixture(t, "reference.yaml", testReference),
		format:        "csv",
		out:           target,
		role:          string(models.RoleAdmin),
		from:          "2024-09-01",
	}
	opts.identity.ID = "root"
	opts.filter.Quarter = "Q1"

	if err := runExport(context.Background(), cmd, opts); err != nil {
		t.Fatalf("runExport failed: %v", err)
	}
	if !strings.Contains(out.String(), "1 actions") {
		t.Errorf("summary should count one action, got %q", out.String())
	}

	raw, err := os.ReadFile(target)
	if err != nil {
		t.Fatalf("read export: %v", err)
	}
	reader := csv.NewReader(bytes.NewReader(raw))
	reader.FieldsPerRecord = -1
	records, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("parse csv: %v", err)
	}
	var names []string
	for _, rec := range records {
		if len(rec) > 1 && (rec[0] == "Robotics fair" || rec[0] == "Reading club") {
			names = append(names, rec[0])
		}
	}
	if diff := cmp.Diff([]string{"Robotics fair"}, names); diff != "" {
		t.Errorf("exported rows mismatch (-want +got):\n%s", diff)
	}
}

func TestExportCmdScopesToIdentity(t *testing.T) {
	cmd, out := newTestCmd()
	opts := &exportOptions{
		actionsFile:   writeFixture(t, "actions.yaml", testActions),
		referenceFile: writeFixture(t, "reference.yaml", testReference),
		format:        "xlsx",
		out:           filepath.Join(t.TempDir(), "report.xlsx"),
		role:          string(models.RoleSubnetCoordinator),
	}
	opts.identity = models.Identity{ID: "s1", Network: "south"}

	if err := runExport(context.Background(), cmd, opts); err != nil {
		t.Fatalf("runExport failed: %v", err)
	}
	if !strings.Contains(out.String(), "1 actions") {
		t.Errorf("subnet coordinator should only see its network, got %q", out.String())
	}
}

func TestExportCmdRejectsBadInput(t *testing.T) {
	cmd, _ := newTestCmd()
	actions := writeFixture(t, "actions.yaml", testActions)

	bad := &exportOptions{actionsFile: actions, format: "docx", out: filepath.Join(t.TempDir(), "x"), role: "admin"}
	if err := runExport(context.Background(), cmd, bad); err == nil {
		t.Error("expected unsupported format to fail")
	}

	badDate := &exportOptions{actionsFile: actions, format: "csv", role: "admin", to: "12/31/2024"}
	if err := runExport(context.Background(), cmd, badDate); err == nil {
		t.Error("expected malformed date to fail")
	}
}

func TestReferenceCheckCmd(t *testing.T) {
	_, out := newTestCmd()
	root := newRootCmd()
	root.SetOut(out)
	root.SetArgs([]string{"reference", "check", writeFixture(t, "reference.yaml", testReference)})
	if err := root.Execute(); err != nil {
		t.Fatalf("reference check failed: %v", err)
	}

	got := strings.Split(strings.TrimSpace(out.String()), "\n")
	want := []string{
		"departments: 1",
		"families:    1",
		"groups:      1",
		"objectives:  1",
		"networks:    1",
		"centers:     1",
		"quarters:    2 (1 active)",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("summary mismatch (-want +got):\n%s", diff)
	}
}
