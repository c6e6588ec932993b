// dvctl renders terminal views over the DV workflow API: list, detail, and
// create screens plus the approval actions, gated the same way the web UI
// gates them.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"go-dvms/pkg/dvclient"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	client := dvclient.New(dvclient.WithToken(os.Getenv("DV_TOKEN")))
	ctx := context.Background()

	var err error
	switch os.Args[1] {
	case "login":
		err = runLogin(ctx, client, os.Args[2:])
	case "list":
		err = runList(ctx, client, os.Args[2:])
	case "show", "get":
		err = runShow(ctx, client, os.Args[2:])
	case "create":
		err = runCreate(ctx, client, os.Args[2:])
	case "submit":
		err = runSubmit(ctx, client, os.Args[2:])
	case "approve":
		err = runApprove(ctx, client, os.Args[2:])
	case "disapprove":
		err = runDisapprove(ctx, client, os.Args[2:])
	case "delete":
		err = runDelete(ctx, client, os.Args[2:])
	case "summary":
		err = runSummary(ctx, client)
	default:
		usage()
		os.Exit(2)
	}

	if err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: dvctl <command> [flags]

commands:
  login       -email -password        obtain a token (export as DV_TOKEN)
  list        [-status] [-office] [-search] [-page]
  show        -id
  create      -number -date -payee -particulars -amount [-office]
  submit      -id
  approve     -id
  disapprove  -id -remarks
  delete      -id
  summary`)
}

func runLogin(ctx context.Context, client *dvclient.Client, args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	email := fs.String("email", "", "account email")
	password := fs.String("password", "", "account password")
	fs.Parse(args)

	result, err := client.Login(ctx, *email, *password)
	if err != nil {
		return err
	}
	fmt.Printf("logged in as %s (%s)\n", result.User.Name, result.User.Role)
	fmt.Printf("export DV_TOKEN=%s\n", result.AccessToken)
	return nil
}

func runList(ctx context.Context, client *dvclient.Client, args []string) error {
	fs := flag.NewFlagSet("list", flag.ExitOnError)
	status := fs.String("status", "", "filter by status")
	office := fs.String("office", "", "filter by office code")
	search := fs.String("search", "", "search dv number, payee, particulars")
	page := fs.Int("page", 1, "page number")
	fs.Parse(args)

	result, err := client.ListDVs(ctx, dvclient.ListOptions{
		Status:     *status,
		OfficeCode: *office,
		Search:     *search,
		Page:       *page,
	})
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDV NUMBER\tDATE\tPAYEE\tAMOUNT\tSTATUS")
	for _, d := range result.Items {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
			d.ID, d.DVNumber, d.DVDate, d.Payee, d.Amount, d.Status)
	}
	w.Flush()
	fmt.Printf("page %d of %d (%d total)\n",
		result.Meta.Page, result.Meta.TotalPages, result.Meta.Total)
	return nil
}

func runShow(ctx context.Context, client *dvclient.Client, args []string) error {
	fs := flag.NewFlagSet("show", flag.ExitOnError)
	id := fs.Uint("id", 0, "DV id")
	fs.Parse(args)

	d, err := client.GetDV(ctx, *id)
	if err != nil {
		return err
	}

	fmt.Printf("DV %s (#%d)\n", d.DVNumber, d.ID)
	fmt.Printf("  date:        %s\n", d.DVDate)
	fmt.Printf("  payee:       %s\n", d.Payee)
	fmt.Printf("  particulars: %s\n", d.Particulars)
	fmt.Printf("  amount:      %s\n", d.Amount)
	fmt.Printf("  status:      %s\n", d.Status)
	if d.Creator != nil {
		fmt.Printf("  created by:  %s\n", d.Creator.Name)
	}
	if d.Approver != nil {
		fmt.Printf("  approved by: %s\n", d.Approver.Name)
	}
	if d.Remarks != nil {
		fmt.Printf("  remarks:     %s\n", *d.Remarks)
	}

	me, err := client.Me(ctx)
	if err == nil && dvclient.ShowApprovalActions(me.Role, d.Status) {
		fmt.Println("  actions:     approve | disapprove")
	}
	return nil
}

func runCreate(ctx context.Context, client *dvclient.Client, args []string) error {
	fs := flag.NewFlagSet("create", flag.ExitOnError)
	number := fs.String("number", "", "DV number")
	date := fs.String("date", "", "DV date (YYYY-MM-DD)")
	payee := fs.String("payee", "", "payee name")
	particulars := fs.String("particulars", "", "particulars")
	amount := fs.String("amount", "", "amount")
	office := fs.String("office", "", "office code")
	fs.Parse(args)

	input := dvclient.CreateDVInput{
		DVNumber:    *number,
		DVDate:      *date,
		Payee:       *payee,
		Particulars: *particulars,
		Amount:      *amount,
	}
	if *office != "" {
		input.OfficeCode = office
	}

	d, err := client.CreateDV(ctx, input)
	if err != nil {
		return err
	}
	fmt.Printf("created DV %s (#%d), status %s\n", d.DVNumber, d.ID, d.Status)
	return nil
}

func runSubmit(ctx context.Context, client *dvclient.Client, args []string) error {
	fs := flag.NewFlagSet("submit", flag.ExitOnError)
	id := fs.Uint("id", 0, "DV id")
	fs.Parse(args)

	status := "submitted"
	d, err := client.UpdateDV(ctx, *id, dvclient.UpdateDVInput{Status: &status})
	if err != nil {
		return err
	}
	fmt.Printf("DV %s is now %s\n", d.DVNumber, d.Status)
	return nil
}

func runApprove(ctx context.Context, client *dvclient.Client, args []string) error {
	fs := flag.NewFlagSet("approve", flag.ExitOnError)
	id := fs.Uint("id", 0, "DV id")
	fs.Parse(args)

	d, err := client.ApproveDV(ctx, *id)
	if err != nil {
		return err
	}
	fmt.Printf("DV %s is now %s\n", d.DVNumber, d.Status)
	return nil
}

func runDisapprove(ctx context.Context, client *dvclient.Client, args []string) error {
	fs := flag.NewFlagSet("disapprove", flag.ExitOnError)
	id := fs.Uint("id", 0, "DV id")
	remarks := fs.String("remarks", "", "reason for disapproval")
	fs.Parse(args)

	d, err := client.DisapproveDV(ctx, *id, *remarks)
	if err != nil {
		return err
	}
	fmt.Printf("DV %s is now %s\n", d.DVNumber, d.Status)
	return nil
}

func runDelete(ctx context.Context, client *dvclient.Client, args []string) error {
	fs := flag.NewFlagSet("delete", flag.ExitOnError)
	id := fs.Uint("id", 0, "DV id")
	fs.Parse(args)

	if err := client.DeleteDV(ctx, *id); err != nil {
		return err
	}
	fmt.Printf("DV #%d deleted\n", *id)
	return nil
}

func runSummary(ctx context.Context, client *dvclient.Client) error {
	s, err := client.DashboardSummary(ctx)
	if err != nil {
		return err
	}
	fmt.Printf("total DVs:        %d\n", s.TotalDVs)
	fmt.Printf("pending approval: %d\n", s.PendingDVs)
	fmt.Printf("approved:         %d\n", s.ApprovedDVs)
	fmt.Printf("total amount:     %s\n", s.TotalAmount)
	return nil
}
