package stats

import (
	"fmt"
	"io"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/zintix-labs/cyclelab/dto"
	"github.com/zintix-labs/cyclelab/engine"
)

var lang language.Tag = language.English

// TablePlanRender 終端機表格
type TablePlanRender struct{}

func (tr *TablePlanRender) Write(w io.Writer, r *dto.PlanResponse) error {
	keys, msg := fmtPlan(r)
	title := r.Name
	if title == "" {
		title = "Cycle Plan"
	}
	out := fmtTable(title, keys, msg)
	if len(r.Errors) > 0 {
		out += "errors:\n"
		for _, e := range r.Errors {
			out += fmt.Sprintf("  - [%s] %s\n", e.Code, e.Message)
		}
	}
	_, err := io.WriteString(w, out)
	return err
}

// TableSweepRender 每個取樣點一列
type TableSweepRender struct{}

func (tr *TableSweepRender) Write(w io.Writer, r *engine.SweepResult) error {
	p := message.NewPrinter(lang)
	headers := []string{"Wins %", "W / L / D", "Total", "Active Pool", "Profit", "ROI %"}
	rows := make([][]string, 0, len(r.Points))
	for _, pt := range r.Points {
		rows = append(rows, []string{
			p.Sprintf("%.2f", pt.WinsPct),
			fmt.Sprintf("%d / %d / %d", pt.Counts.Wins, pt.Counts.Losses, pt.Counts.Draws),
			p.Sprintf("%.0f", pt.Economics.TotalEstimate),
			p.Sprintf("%.0f", pt.Economics.ActivePool),
			p.Sprintf("%.0f", pt.Economics.Profit),
			p.Sprintf("%.2f", pt.Economics.RoiActive),
		})
	}
	out := fmtGrid(headers, rows)
	out += p.Sprintf("ROI mean %.2f %% | min %.2f %% | max %.2f %%\n", r.RoiMean, r.RoiMin, r.RoiMax)
	_, err := io.WriteString(w, out)
	return err
}

// ============================================================
// ** 內部方法 **
// ============================================================

func fmtPlan(r *dto.PlanResponse) ([]string, map[string]string) {
	p := message.NewPrinter(lang)
	e := r.Economics
	basic := map[string]string{
		"Flow":          string(r.Flow),
		"Bet Range":     p.Sprintf("%.2f ~ %.2f", r.Bets.Min, r.Bets.Max),
		"Distribution":  p.Sprintf("%.2f / %.2f / %.2f %%", r.Distribution.WinsPct, r.Distribution.LossesPct, r.Distribution.DrawsPct),
		"Cycle Games":   p.Sprintf("%d", r.CycleGames),
		"Raw W/L/D":     fmt.Sprintf("%d / %d / %d", r.RawCounts.Wins, r.RawCounts.Losses, r.RawCounts.Draws),
		"W/L/D":         fmt.Sprintf("%d / %d / %d", r.Counts.Wins, r.Counts.Losses, r.Counts.Draws),
		"Buckets S/M/L": fmt.Sprintf("%d / %d / %d", r.Buckets.Small, r.Buckets.Medium, r.Buckets.Large),
		"Total":         p.Sprintf("%.0f", e.TotalEstimate),
		"Wins Sum":      p.Sprintf("%.0f", e.WinsSum),
		"Losses Sum":    p.Sprintf("%.0f", e.LossesSum),
		"Draws Sum":     p.Sprintf("%.0f", e.DrawsSum),
		"Active Pool":   p.Sprintf("%.0f", e.ActivePool),
		"Profit":        p.Sprintf("%.0f", e.Profit),
		"ROI (active)":  p.Sprintf("%.2f %%", e.RoiActive),
		"Valid":         fmt.Sprintf("%t", r.Valid),
	}
	keys := []string{"Flow", "Bet Range", "Distribution", "Cycle Games", "Raw W/L/D", "W/L/D", "Buckets S/M/L",
		"Total", "Wins Sum", "Losses Sum", "Draws Sum", "Active Pool", "Profit", "ROI (active)", "Valid"}
	return keys, basic
}

func fmtTable(title string, keys []string, msg map[string]string) string {
	p := message.NewPrinter(lang)
	maxKeyLen := 0
	maxValLen := 0
	for k, m := range msg {
		if w := runewidth.StringWidth(k); w > maxKeyLen {
			maxKeyLen = w
		}
		if w := runewidth.StringWidth(m); w > maxValLen {
			maxValLen = w
		}
	}
	maxKeyLen += 2
	maxValLen += 2

	// 標題比內容寬時撐開值欄
	titleW := runewidth.StringWidth(title)
	if inner := maxKeyLen + maxValLen + 1; titleW+2 > inner {
		maxValLen += titleW + 2 - inner
	}

	divider := "+" + strings.Repeat("-", maxKeyLen) + "+" + strings.Repeat("-", maxValLen) + "+\n"
	top := "+" + strings.Repeat("-", maxKeyLen+1+maxValLen) + "+\n"

	totalInner := maxKeyLen + maxValLen + 1
	left := (totalInner - titleW) / 2
	right := totalInner - titleW - left

	fmtStr := top
	fmtStr += p.Sprintf("|%s%s%s|\n", blank(left), title, blank(right))
	fmtStr += divider
	for _, k := range keys {
		fmtStr += p.Sprintf("| %s%s | %s%s |\n", k, blank(maxKeyLen-2-runewidth.StringWidth(k)), msg[k], blank(maxValLen-2-runewidth.StringWidth(msg[k])))
	}
	fmtStr += divider

	return fmtStr
}

// fmtGrid 多欄表格，數值靠右
func fmtGrid(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = runewidth.StringWidth(h)
	}
	for _, row := range rows {
		for i, c := range row {
			if w := runewidth.StringWidth(c); i < len(widths) && w > widths[i] {
				widths[i] = w
			}
		}
	}
	var sb strings.Builder
	divider := "+"
	for _, w := range widths {
		divider += strings.Repeat("-", w+2) + "+"
	}
	divider += "\n"

	line := func(cells []string) {
		sb.WriteString("|")
		for i, w := range widths {
			c := ""
			if i < len(cells) {
				c = cells[i]
			}
			sb.WriteString(" " + blank(w-runewidth.StringWidth(c)) + c + " |")
		}
		sb.WriteString("\n")
	}
	sb.WriteString(divider)
	line(headers)
	sb.WriteString(divider)
	for _, row := range rows {
		line(row)
	}
	sb.WriteString(divider)
	return sb.String()
}

func blank(w int) string {
	if w < 1 {
		return ""
	}
	return strings.Repeat(" ", w)
}
