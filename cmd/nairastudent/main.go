package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/JamesHardey/NairaStudent/internal/amqp"
	"github.com/JamesHardey/NairaStudent/internal/budget"
	"github.com/JamesHardey/NairaStudent/internal/cli"
	"github.com/JamesHardey/NairaStudent/internal/core"
	"github.com/JamesHardey/NairaStudent/internal/notify"
	"github.com/JamesHardey/NairaStudent/internal/services"
)

const usage = `NairaStudent - daily budget tracker

Usage:
  nairastudent <command> [flags]

Commands:
  add        Record an expense
  list       List recorded expenses
  edit       Edit an expense by id
  delete     Delete an expense by id
  clear      Delete all expenses
  limit      Show or set the daily limit
  status     Show today's spending against the limit
  analytics  Show weekly and monthly breakdowns
  summary    Send the end-of-day summary notification

Run 'nairastudent <command> -h' for command flags.`

func main() {
	cli.LoadEnvFile()
	logger := cli.SetupLogger()

	if len(os.Args) < 2 {
		fmt.Println(usage)
		os.Exit(2)
	}

	cfg := cli.LoadAndValidateConfig(logger)
	store := cli.OpenStore(logger, cfg)

	// The broker is optional for interactive use: without it alerts go to
	// the log and sheet export is handled by the worker's pending scan.
	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		client, err := amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPSyncQueue, cfg.AMQPAlertQueue)
		if err != nil {
			logger.Warn("Broker unavailable, continuing without it", "error", err)
		} else {
			amqpClient = client
		}
	}

	var notifier notify.Notifier
	if amqpClient != nil {
		notifier = notify.NewAMQPNotifier(amqpClient)
	}

	svc := services.NewBudgetService(store, notifier, amqpClient)
	defer func() {
		if err := svc.Close(); err != nil {
			logger.Error("Close failed", "error", err)
		}
	}()

	ctx := context.Background()
	if err := run(ctx, svc, os.Args[1], os.Args[2:]); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, svc *services.BudgetService, command string, args []string) error {
	switch command {
	case "add":
		return runAdd(ctx, svc, args)
	case "list":
		return runList(ctx, svc)
	case "edit":
		return runEdit(ctx, svc, args)
	case "delete":
		return runDelete(ctx, svc, args)
	case "clear":
		return runClear(ctx, svc)
	case "limit":
		return runLimit(ctx, svc, args)
	case "status":
		return runStatus(ctx, svc)
	case "analytics":
		return runAnalytics(ctx, svc)
	case "summary":
		return svc.DailySummary(ctx, time.Now())
	case "help", "-h", "--help":
		fmt.Println(usage)
		return nil
	default:
		fmt.Println(usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func runAdd(ctx context.Context, svc *services.BudgetService, args []string) error {
	fs := flag.NewFlagSet("add", flag.ExitOnError)
	amount := fs.String("amount", "", "amount in naira, e.g. 450 or 450.50")
	category := fs.String("category", core.CategoryMisc, "category id: food, transport, data, printing, misc")
	note := fs.String("note", "", "optional note")
	date := fs.String("date", "", "date (YYYY-MM-DD), defaults to now")
	fs.Parse(args)

	if *amount == "" {
		return fmt.Errorf("-amount is required")
	}
	kobo, err := core.ParseDecimalToKobo(*amount)
	if err != nil {
		return fmt.Errorf("amount %q: %w", *amount, err)
	}

	expense := core.Expense{
		Amount:   core.Money{Kobo: kobo},
		Category: strings.ToLower(*category),
		Note:     *note,
	}
	if *date != "" {
		d, err := time.ParseInLocation("2006-01-02", *date, time.Local)
		if err != nil {
			return fmt.Errorf("date %q: %w", *date, err)
		}
		expense.Date = d
	}

	saved, err := svc.SaveExpense(ctx, expense)
	if err != nil {
		return err
	}
	fmt.Printf("Recorded %s on %s (id %s)\n",
		core.FormatNaira(saved.Amount), core.CategoryByID(saved.Category).Name, saved.ID)
	return nil
}

func runList(ctx context.Context, svc *services.BudgetService) error {
	expenses, err := svc.ListExpenses(ctx)
	if err != nil {
		return err
	}
	if len(expenses) == 0 {
		fmt.Println("No expenses recorded.")
		return nil
	}
	for _, e := range expenses {
		note := e.Note
		if note != "" {
			note = "  " + note
		}
		fmt.Printf("%-5s %s  %-10s %12s%s\n",
			e.ID, e.Date.Format("2006-01-02"), e.Category, core.FormatNaira(e.Amount), note)
	}
	return nil
}

func runEdit(ctx context.Context, svc *services.BudgetService, args []string) error {
	fs := flag.NewFlagSet("edit", flag.ExitOnError)
	amount := fs.String("amount", "", "new amount in naira")
	category := fs.String("category", "", "new category id")
	note := fs.String("note", "", "new note")
	date := fs.String("date", "", "new date (YYYY-MM-DD)")
	fs.Parse(args)

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: edit [flags] <id>")
	}
	id := fs.Arg(0)

	var patch core.ExpensePatch
	if *amount != "" {
		kobo, err := core.ParseDecimalToKobo(*amount)
		if err != nil {
			return fmt.Errorf("amount %q: %w", *amount, err)
		}
		m := core.Money{Kobo: kobo}
		patch.Amount = &m
	}
	if *category != "" {
		c := strings.ToLower(*category)
		patch.Category = &c
	}
	// -note "" clears the note, so presence matters, not the value
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "note" {
			patch.Note = note
		}
	})
	if *date != "" {
		d, err := time.ParseInLocation("2006-01-02", *date, time.Local)
		if err != nil {
			return fmt.Errorf("date %q: %w", *date, err)
		}
		patch.Date = &d
	}

	found, err := svc.UpdateExpense(ctx, id, patch)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no expense with id %s", id)
	}
	fmt.Printf("Updated expense %s\n", id)
	return nil
}

func runDelete(ctx context.Context, svc *services.BudgetService, args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: delete <id>")
	}
	found, err := svc.DeleteExpense(ctx, args[0])
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("no expense with id %s", args[0])
	}
	fmt.Printf("Deleted expense %s\n", args[0])
	return nil
}

func runClear(ctx context.Context, svc *services.BudgetService) error {
	if err := svc.ClearExpenses(ctx); err != nil {
		return err
	}
	fmt.Println("All expenses cleared.")
	return nil
}

func runLimit(ctx context.Context, svc *services.BudgetService, args []string) error {
	if len(args) == 0 {
		limit, err := svc.DailyLimit(ctx)
		if err != nil {
			return err
		}
		fmt.Printf("Daily limit: %s\n", core.FormatNaira(limit))
		return nil
	}

	kobo, err := core.ParseDecimalToKobo(args[0])
	if err != nil {
		return fmt.Errorf("limit %q: %w", args[0], err)
	}
	limit := core.Money{Kobo: kobo}
	if err := svc.SetDailyLimit(ctx, limit); err != nil {
		return err
	}
	fmt.Printf("Daily limit set to %s\n", core.FormatNaira(limit))
	return nil
}

func runStatus(ctx context.Context, svc *services.BudgetService) error {
	ov := svc.Overview(ctx, time.Now())

	fmt.Printf("Spent today:  %s of %s (%.0f%%)\n",
		core.FormatNaira(ov.Status.DailyTotal), core.FormatNaira(ov.Status.Limit), ov.Status.Progress)
	fmt.Printf("Remaining:    %s\n", core.FormatNaira(ov.Status.Remaining))
	if ov.Status.InDanger {
		fmt.Println("Warning: less than 20% of today's budget left.")
	}

	if len(ov.Breakdown) > 0 {
		fmt.Println("\nToday by category:")
		for _, b := range ov.Breakdown {
			fmt.Printf("  %-10s %12s  %5.1f%%\n", b.Category, core.FormatNaira(b.Amount), b.Percentage)
		}
	}

	fmt.Printf("\nTrend vs yesterday: %s", ov.Trend.Direction)
	if ov.Trend.Direction != budget.TrendNeutral {
		fmt.Printf(" (%.1f%%)", ov.Trend.Percentage)
	}
	fmt.Println()
	return nil
}

func runAnalytics(ctx context.Context, svc *services.BudgetService) error {
	a := svc.Analytics(ctx, time.Now())

	fmt.Printf("This week:  %s total, %s/day average\n",
		core.FormatNaira(a.WeeklyTotal), core.FormatNaira(core.Money{Kobo: int64(a.WeeklyAverage * 100)}))
	fmt.Printf("This month: %s total, %s/day average\n",
		core.FormatNaira(a.MonthlyTotal), core.FormatNaira(core.Money{Kobo: int64(a.MonthlyAverage * 100)}))

	fmt.Println("\nThis week by day:")
	for _, d := range a.ByDay {
		fmt.Printf("  %s %12s\n", d.Day, core.FormatNaira(d.Amount))
	}

	if len(a.TopWeek) > 0 {
		fmt.Println("\nTop categories this week:")
		for i, c := range a.TopWeek {
			fmt.Printf("  %d. %-10s %12s\n", i+1, c.Category, core.FormatNaira(c.Amount))
		}
	}
	if len(a.TopMonth) > 0 {
		fmt.Println("\nTop categories this month:")
		for i, c := range a.TopMonth {
			fmt.Printf("  %d. %-10s %12s\n", i+1, c.Category, core.FormatNaira(c.Amount))
		}
	}
	return nil
}
