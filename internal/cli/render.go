package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/tbourn/nutritrack/internal/domain"
	"github.com/tbourn/nutritrack/internal/history"
	"github.com/tbourn/nutritrack/internal/nutrition"
	"github.com/tbourn/nutritrack/internal/services"
)

// title capitalizes ingredient names for display. Casers keep state, so
// each call gets its own.
func title(s string) string {
	return cases.Title(language.English).String(s)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func table(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func num(v float64) string {
	return strings.TrimSuffix(fmt.Sprintf("%.1f", v), ".0")
}

func macroCells(m nutrition.Macros) string {
	return fmt.Sprintf("%s\t%s\t%s\t%s\t%s", num(m.Kcal), num(m.Protein), num(m.Carbs), num(m.Fats), num(m.Fiber))
}

const macroHeader = "KCAL\tPROTEIN\tCARBS\tFATS\tFIBER"

// itemsLabel renders "Chicken Breast 200g, Rice 150g".
func itemsLabel(e domain.MealEntry) string {
	parts := make([]string, 0, len(e.Items))
	for _, it := range e.MealItems() {
		parts = append(parts, title(it.Ingredient)+" "+num(it.Quantity)+"g")
	}
	return strings.Join(parts, ", ")
}

func printLogged(w io.Writer, e domain.MealEntry, today history.Bucket, loc *time.Location) {
	fmt.Fprintf(w, "Logged %s at %s: %s\n", e.ID, e.Timestamp.In(orLocal(loc)).Format("15:04"), itemsLabel(e))
	fmt.Fprintf(w, "  %s kcal, %sg protein, %sg carbs, %sg fats, %sg fiber\n",
		num(e.Macros.Kcal), num(e.Macros.Protein), num(e.Macros.Carbs), num(e.Macros.Fats), num(e.Macros.Fiber))
	fmt.Fprintf(w, "Today: %d meal(s), %s kcal\n", today.Count, num(today.Macros.Kcal))
}

func printDay(w io.Writer, r *services.DayReport, loc *time.Location) {
	if d, err := time.Parse(history.DateLayout, r.Date); err == nil {
		fmt.Fprintln(w, d.Format("Monday 2 January 2006"))
	} else {
		fmt.Fprintln(w, r.Date)
	}
	if r.Count == 0 {
		fmt.Fprintln(w, "No meals logged.")
	} else {
		tw := table(w)
		fmt.Fprintln(tw, "TIME\tID\tITEMS\t"+macroHeader)
		for _, e := range r.Entries {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", e.Timestamp.In(orLocal(loc)).Format("15:04"), e.ID, itemsLabel(e), macroCells(e.Macros))
		}
		fmt.Fprintf(tw, "\t\tTOTAL\t%s\n", macroCells(r.Macros))
		_ = tw.Flush()
	}
	fmt.Fprintf(w, "Goals: %s/%s kcal (%s%%), %s/%sg protein (%s%%), %s/%sg fiber (%s%%)\n",
		num(r.Macros.Kcal), num(r.Goals.Kcal), num(r.Progress.Kcal),
		num(r.Macros.Protein), num(r.Goals.Protein), num(r.Progress.Protein),
		num(r.Macros.Fiber), num(r.Goals.Fiber), num(r.Progress.Fiber))
}

// printMonth lists only the days with meals.
func printMonth(w io.Writer, r *services.MonthReport) {
	fmt.Fprintf(w, "%s: %d meal(s)\n", r.Month, r.Count)
	if r.Count == 0 {
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "DATE\tMEALS\t"+macroHeader)
	for _, d := range r.Days {
		if d.Count == 0 {
			continue
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", d.Date, d.Count, macroCells(d.Macros))
	}
	fmt.Fprintf(tw, "TOTAL\t%d\t%s\n", r.Count, macroCells(r.Macros))
	_ = tw.Flush()
}

func printLookup(w io.Writer, res *services.LookupResult) {
	if len(res.Items) == 0 {
		fmt.Fprintf(w, "Nothing found for %q.\n", res.Query)
		return
	}
	tw := table(w)
	fmt.Fprintln(tw, "FOOD\tSERVING\t"+macroHeader)
	for _, it := range res.Items {
		fmt.Fprintf(tw, "%s\t%sg\t%s\n", title(it.Name), num(it.ServingSizeG), macroCells(it.Macros()))
	}
	fmt.Fprintf(tw, "TOTAL\t\t%s\n", macroCells(res.Total))
	_ = tw.Flush()
}

func printIngredients(w io.Writer, rows []nutrition.Ingredient) {
	tw := table(w)
	fmt.Fprintln(tw, "INGREDIENT\t"+macroHeader+"\t(per 100 g)")
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%s\t\n", title(r.Key), macroCells(r.PerHundred))
	}
	_ = tw.Flush()
}

func orLocal(loc *time.Location) *time.Location {
	if loc == nil {
		return time.Local
	}
	return loc
}
