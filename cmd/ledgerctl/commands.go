package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"
	"github.com/shopspring/decimal"

	"github.com/mamadbah2/shopledger/internal/domain/models"
	"github.com/mamadbah2/shopledger/internal/repository/store"
	"github.com/mamadbah2/shopledger/internal/service/inventory"
	"github.com/mamadbah2/shopledger/internal/service/reporting"
)

// app carries the wired services into each subcommand.
type app struct {
	ledger    *store.Ledger
	inventory *inventory.Service
	reports   *reporting.Service
	out       io.Writer
}

var commands = []subcommands.Command{
	&summaryCmd{},
	&searchCmd{},
	&migrateCmd{},
	&sellCmd{},
	&restockCmd{},
}

func appFrom(args []interface{}) *app {
	if len(args) == 0 {
		return nil
	}
	a, _ := args[0].(*app)
	return a
}

func fail(err error) subcommands.ExitStatus {
	fmt.Fprintln(os.Stderr, err)
	return subcommands.ExitFailure
}

type summaryCmd struct{}

func (*summaryCmd) Name() string     { return "summary" }
func (*summaryCmd) Synopsis() string { return "print today's report without archiving it" }
func (*summaryCmd) Usage() string {
	return `ledgerctl summary

  Prints profitability per currency, service-order volume, inventory value and
  low-stock items, as sent to the manager every evening.
`
}
func (*summaryCmd) SetFlags(*flag.FlagSet) {}

func (*summaryCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	report, err := a.reports.DailyReport(ctx)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintln(a.out, reporting.FormatDailyReport(report))
	return subcommands.ExitSuccess
}

type searchCmd struct{}

func (*searchCmd) Name() string     { return "search" }
func (*searchCmd) Synopsis() string { return "list inventory rows matching a query" }
func (*searchCmd) Usage() string {
	return `ledgerctl search [query...]

  Matches the query as one case-insensitive substring of any item field,
  including the date added. Without a query every row is listed. The INDEX column addresses rows in sell and restock.
`
}
func (*searchCmd) SetFlags(*flag.FlagSet) {}

func (*searchCmd) Execute(ctx context.Context, f *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	entries, err := a.inventory.List(ctx, strings.Join(f.Args(), " "))
	if err != nil {
		return fail(err)
	}

	w := tabwriter.NewWriter(a.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "INDEX\tITEM\tCOLOR\tSTOCK\tCOST\tTARGET")
	for _, e := range entries {
		currency := e.Item.PurchaseCurrency
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
			e.Index,
			e.Item.Label(),
			e.Item.Color,
			e.Item.Stock,
			currency.Format(e.Item.PurchaseCost),
			currency.Format(e.Item.TargetPrice),
		)
	}
	if err := w.Flush(); err != nil {
		return fail(err)
	}
	return subcommands.ExitSuccess
}

type migrateCmd struct{}

func (*migrateCmd) Name() string     { return "migrate" }
func (*migrateCmd) Synopsis() string { return "rewrite every table under its canonical header" }
func (*migrateCmd) Usage() string {
	return `ledgerctl migrate

  Reads all tables, accepting legacy column names, and writes them back with
  the current headers. Missing columns are filled with defaults.
`
}
func (*migrateCmd) SetFlags(*flag.FlagSet) {}

func (*migrateCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if err := a.ledger.Migrate(ctx); err != nil {
		return fail(err)
	}
	fmt.Fprintln(a.out, "ledger migrated")
	return subcommands.ExitSuccess
}

type sellCmd struct {
	index    int
	price    string
	currency string
	rate     string
}

func (*sellCmd) Name() string     { return "sell" }
func (*sellCmd) Synopsis() string { return "register a one-unit sale" }
func (*sellCmd) Usage() string {
	return `ledgerctl sell -index <n> -price <amount> -currency <code> [-rate <rate>]

  The rate reads "1 unit of the purchase currency = rate units of the sale
  currency" and is ignored when both currencies match.
`
}

func (c *sellCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.index, "index", -1, "inventory row index, as printed by search")
	f.StringVar(&c.price, "price", "", "final selling price")
	f.StringVar(&c.currency, "currency", "", "sale currency (USD, EUR, TRY, GBP or symbol)")
	f.StringVar(&c.rate, "rate", "", "exchange rate from the purchase currency (optional for same-currency sales)")
}

func (c *sellCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if c.index < 0 || c.price == "" || c.currency == "" {
		return fail(errors.New("sell needs -index, -price and -currency"))
	}
	price, err := decimal.NewFromString(c.price)
	if err != nil {
		return fail(fmt.Errorf("price: %w", err))
	}
	rate := decimal.Zero
	if c.rate != "" {
		if rate, err = decimal.NewFromString(c.rate); err != nil {
			return fail(fmt.Errorf("rate: %w", err))
		}
	}

	result, err := a.inventory.Sell(ctx, inventory.SaleRequest{
		Index:    c.index,
		Price:    price,
		Currency: models.ParseCurrency(c.currency),
		Rate:     rate,
	})
	if err != nil {
		return fail(err)
	}

	sale := result.Sale
	fmt.Fprintf(a.out, "sold %s for %s, cost %s, margin %s\n",
		sale.ItemLabel,
		sale.SellingCurrency.Format(sale.SellingPrice),
		sale.SellingCurrency.Format(sale.CostPriceNormalized),
		sale.SellingCurrency.Format(result.Margin),
	)
	if result.BelowCost {
		fmt.Fprintln(a.out, "warning: sold below cost")
	}
	return subcommands.ExitSuccess
}

type restockCmd struct {
	index    int
	quantity int
}

func (*restockCmd) Name() string     { return "restock" }
func (*restockCmd) Synopsis() string { return "add units to an inventory row" }
func (*restockCmd) Usage() string {
	return `ledgerctl restock -index <n> -qty <units>
`
}

func (c *restockCmd) SetFlags(f *flag.FlagSet) {
	f.IntVar(&c.index, "index", -1, "inventory row index, as printed by search")
	f.IntVar(&c.quantity, "qty", 0, "units received")
}

func (c *restockCmd) Execute(ctx context.Context, _ *flag.FlagSet, args ...interface{}) subcommands.ExitStatus {
	a := appFrom(args)
	if c.index < 0 {
		return fail(errors.New("restock needs -index"))
	}

	entry, err := a.inventory.Restock(ctx, c.index, c.quantity)
	if err != nil {
		return fail(err)
	}
	fmt.Fprintf(a.out, "%s now has %d in stock\n", entry.Item.Label(), entry.Item.Stock)
	return subcommands.ExitSuccess
}
