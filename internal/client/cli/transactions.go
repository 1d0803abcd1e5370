package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/budgetkeeper/internal/client/api"
	"github.com/dmitrijs2005/budgetkeeper/internal/netx"
)

// Seams for tests.
var (
	uploadReceipt = netx.UploadToS3PresignedURL
	readFile      = os.ReadFile
	getMultiline  = GetMultiline
)

var errUsage = errors.New("usage")

// List prints the newest transactions. An optional first argument caps
// the number of rows.
func (a *App) List(ctx context.Context, args []string) error {
	var q api.TransactionQuery
	if len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil || n <= 0 {
			fmt.Fprintln(a.out, "Usage: list [limit]")
			return errUsage
		}
		q.Limit = n
	}

	list, err := a.backend.ListTransactions(ctx, q)
	if err != nil {
		return a.fail(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No transactions")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDATE\tAMOUNT\tCURRENCY\tDESCRIPTION\tRECEIPT")
	for _, t := range list {
		desc := ""
		if t.Description != nil {
			desc = *t.Description
		}
		receipt := ""
		if t.HasReceipt {
			receipt = "yes"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Date, t.Amount, t.Currency, desc, receipt)
	}
	return tw.Flush()
}

// Add walks the user through a new transaction. The server validates the
// values; its message is shown as is.
func (a *App) Add(ctx context.Context) error {
	var nt api.NewTransaction

	account, err := getSimpleText(a.reader, "Account ID", a.out)
	if err != nil {
		return err
	}
	nt.AccountID = account

	amount, err := getSimpleText(a.reader, "Amount (e.g. -12.50)", a.out)
	if err != nil {
		return err
	}
	nt.Amount = json.Number(amount)

	if nt.Date, err = getSimpleText(a.reader, "Date (YYYY-MM-DD)", a.out); err != nil {
		return err
	}

	currency, err := getOptionalText(a.reader, "Currency", a.out)
	if err != nil {
		return err
	}
	if currency != nil {
		nt.Currency = *currency
	}

	if nt.SubcategoryID, err = getOptionalText(a.reader, "Subcategory ID", a.out); err != nil {
		return err
	}
	if nt.Description, err = getOptionalText(a.reader, "Description", a.out); err != nil {
		return err
	}

	notes, err := getMultiline(a.reader, "Notes", a.out)
	if err != nil {
		return err
	}
	if notes != "" {
		nt.Notes = &notes
	}

	t, err := a.backend.CreateTransaction(ctx, nt)
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Created", t.ID)
	return nil
}

func (a *App) Delete(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: delete <id>")
		return errUsage
	}
	if err := a.backend.DeleteTransaction(ctx, args[0]); err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, "Deleted", args[0])
	return nil
}

// Receipt uploads a local file as the receipt of a transaction: it asks the
// server for a presigned PUT and sends the file straight to storage.
func (a *App) Receipt(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: receipt <id> <file>")
		return errUsage
	}

	data, err := readFile(args[1])
	if err != nil {
		return a.fail(err)
	}

	up, err := a.backend.AttachReceipt(ctx, args[0])
	if err != nil {
		return a.fail(err)
	}
	if err := uploadReceipt(up.UploadURL, data); err != nil {
		return a.fail(err)
	}

	fmt.Fprintln(a.out, "Uploaded", up.StorageKey)
	return nil
}

func (a *App) ReceiptURL(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: receipt-url <id>")
		return errUsage
	}
	url, err := a.backend.ReceiptURL(ctx, args[0])
	if err != nil {
		return a.fail(err)
	}
	fmt.Fprintln(a.out, url)
	return nil
}
