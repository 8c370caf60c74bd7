package cmd

import (
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/pterm/pterm"
	"github.com/rzbill/botconfig/pkg/cli/format"
	"github.com/rzbill/botconfig/pkg/types"
)

var ansiRegex = regexp.MustCompile("\x1b\\[[0-9;]*m")

// ServiceTable renders bot services as a table
type ServiceTable struct {
	Headers     []string
	ShowHeaders bool
	MaxWidth    int

	tableRenderer *pterm.TablePrinter
}

// NewServiceTable creates a new service table with default configuration
func NewServiceTable() *ServiceTable {
	table := pterm.DefaultTable.WithHasHeader(true)
	table = table.WithHeaderStyle(pterm.NewStyle(pterm.FgCyan, pterm.Bold))

	return &ServiceTable{
		Headers:       []string{"ID", "NAME", "TYPE", "DETAIL", "SECRETS"},
		ShowHeaders:   true,
		MaxWidth:      60,
		tableRenderer: table,
	}
}

// Render writes services to w. Secret values are never shown, only whether
// each encrypted field is set.
func (t *ServiceTable) Render(w io.Writer, services []*types.Service) error {
	if len(services) == 0 {
		_, err := fmt.Fprintln(w, "No services found")
		return err
	}

	var rows [][]string
	if t.ShowHeaders {
		rows = append(rows, t.Headers)
	}
	for _, svc := range services {
		rows = append(rows, []string{
			svc.ID,
			svc.Name,
			string(svc.Type),
			truncate(serviceDetail(svc), t.MaxWidth),
			secretSummary(svc),
		})
	}

	out, err := t.tableRenderer.WithHasHeader(t.ShowHeaders).WithData(rows).Srender()
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(w, out)
	return err
}

// serviceDetail picks the most identifying non-secret attribute of a service.
func serviceDetail(svc *types.Service) string {
	switch svc.Type {
	case types.ServiceTypeEndpoint:
		return svc.Endpoint
	case types.ServiceTypeQnA:
		if svc.Hostname != "" {
			return fmt.Sprintf("kb %s @ %s", svc.KbID, svc.Hostname)
		}
		return "kb " + svc.KbID
	case types.ServiceTypeLUIS, types.ServiceTypeDispatch:
		if svc.Version != "" {
			return fmt.Sprintf("app %s v%s", svc.AppID, svc.Version)
		}
		return "app " + svc.AppID
	default:
		return svc.AppID
	}
}

func secretSummary(svc *types.Service) string {
	fields := svc.EncryptedFields()
	if len(fields) == 0 {
		return format.Dim("-")
	}
	parts := make([]string, 0, len(fields))
	for _, f := range fields {
		value, _ := svc.Field(f)
		parts = append(parts, f+" "+format.StatusSymbol(value != ""))
	}
	return strings.Join(parts, ", ")
}

func truncate(s string, max int) string {
	if max > 3 && len(s) > max {
		return s[:max-3] + "..."
	}
	return s
}

// stripAnsi removes ANSI color codes, used when comparing rendered output
func stripAnsi(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}
