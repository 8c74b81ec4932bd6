package main

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	_ "github.com/lib/pq"

	"library-backend/internal/config"
	"library-backend/internal/domain"
	"library-backend/internal/logger"
	"library-backend/internal/repository/postgres"
	"library-backend/internal/service"
)

// libraryctl is the operator console: front-desk circulation actions and
// catalog maintenance without going through the HTTP API.

type app struct {
	cfg         *config.Config
	db          *sql.DB
	catalog     service.CatalogService
	circulation service.CirculationService
	fines       service.FineService
	members     service.MemberService
}

func (a *app) init(configPath string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	logger.Initialize(cfg.Log.Level, cfg.Log.Format)

	db, err := sql.Open("postgres", cfg.GetDatabaseConnectionString())
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return fmt.Errorf("failed to ping database: %w", err)
	}

	store := postgres.NewStore(db)
	emailSvc := service.NewEmailService(cfg.SendGrid)
	fineSvc := service.NewFineService(
		store.FineRepository,
		store.TransactionRepository,
		store.MemberRepository,
		store.BookRepository,
		emailSvc,
		cfg.Fines,
	)
	circulationSvc := service.NewCirculationService(
		store.BookRepository,
		store.MemberRepository,
		store.TransactionRepository,
		store.ReservationRepository,
		emailSvc,
		fineSvc,
		cfg.Circulation,
	)

	a.cfg = cfg
	a.db = db
	a.catalog = service.NewCatalogService(store.BookRepository, store.ReservationRepository)
	a.circulation = circulationSvc
	a.fines = fineSvc
	a.members = service.NewMemberService(store.MemberRepository)
	return nil
}

func (a *app) close() {
	if a.db != nil {
		a.db.Close()
	}
}

func main() {
	a := &app{}
	var configPath string

	root := &cobra.Command{
		Use:   "libraryctl",
		Short: "Operator console for the library backend",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.init(configPath)
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			a.close()
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&configPath, "config", "config/config.dev.yaml", "Path to configuration file")

	root.AddCommand(
		newBooksCmd(a),
		newBorrowCmd(a),
		newReturnCmd(a),
		newReserveCmd(a),
		newFinesCmd(a),
		newMembersCmd(a),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newBooksCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "books",
		Short: "Catalog maintenance",
	}

	var title string
	var copies int32
	addCmd := &cobra.Command{
		Use:   "add <isbn>",
		Short: "Add a book to the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			book := &domain.Book{ISBN: args[0], Title: title, TotalCopies: copies}
			if err := a.catalog.AddBook(context.Background(), book, nil, nil); err != nil {
				return err
			}
			fmt.Printf("added %s (%d copies)\n", book.ISBN, book.TotalCopies)
			return nil
		},
	}
	addCmd.Flags().StringVar(&title, "title", "", "Book title")
	addCmd.Flags().Int32Var(&copies, "copies", 1, "Total copies")
	addCmd.MarkFlagRequired("title")

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			books, err := a.catalog.ListBooks(context.Background())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ISBN\tTITLE\tAVAILABLE\tTOTAL")
			for _, b := range books {
				fmt.Fprintf(w, "%s\t%s\t%d\t%d\n", b.ISBN, b.Title, b.AvailableCopies, b.TotalCopies)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(addCmd, listCmd)
	return cmd
}

func newBorrowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "borrow <isbn> <member-id>",
		Short: "Check a book out to a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := parseID(args[1])
			if err != nil {
				return err
			}
			tx, err := a.circulation.Borrow(context.Background(), args[0], memberID)
			if err != nil {
				return err
			}
			fmt.Printf("transaction %d: due %s\n", tx.ID, tx.DueDate.Format("2006-01-02"))
			return nil
		},
	}
}

func newReturnCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "return <isbn> <member-id>",
		Short: "Check a book back in",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := parseID(args[1])
			if err != nil {
				return err
			}
			tx, err := a.circulation.Return(context.Background(), args[0], memberID)
			if err != nil {
				return err
			}
			fmt.Printf("transaction %d returned\n", tx.ID)
			return nil
		},
	}
}

func newReserveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reserve <isbn> <member-id>",
		Short: "Place a reservation for a member",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := parseID(args[1])
			if err != nil {
				return err
			}
			res, err := a.circulation.Reserve(context.Background(), args[0], memberID)
			if err != nil {
				return err
			}
			fmt.Printf("reservation %d placed\n", res.ID)
			return nil
		},
	}

	cancelCmd := &cobra.Command{
		Use:   "cancel <reservation-id>",
		Short: "Cancel a reservation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if _, err := a.circulation.CancelReservation(context.Background(), id, 0); err != nil {
				return err
			}
			fmt.Printf("reservation %d cancelled\n", id)
			return nil
		},
	}
	cmd.AddCommand(cancelCmd)
	return cmd
}

func newFinesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fines",
		Short: "Fine management",
	}

	accrueCmd := &cobra.Command{
		Use:   "accrue",
		Short: "Run the fine accrual scan now",
		RunE: func(cmd *cobra.Command, args []string) error {
			issued, err := a.fines.RunAccrualScan(context.Background())
			if err != nil {
				return err
			}
			fmt.Printf("issued %d fine(s)\n", issued)
			return nil
		},
	}

	payCmd := &cobra.Command{
		Use:   "pay <fine-id>",
		Short: "Record a fine payment taken at the desk",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			fine, err := a.fines.PayFine(context.Background(), id, 0)
			if err != nil {
				return err
			}
			fmt.Printf("fine %d paid ($%d.%02d)\n", fine.ID, fine.AmountCents/100, fine.AmountCents%100)
			return nil
		},
	}

	listCmd := &cobra.Command{
		Use:   "list <member-id>",
		Short: "List a member's fines",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			memberID, err := parseID(args[0])
			if err != nil {
				return err
			}
			fines, err := a.fines.ListMemberFines(context.Background(), memberID)
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tTRANSACTION\tAMOUNT\tSTATUS")
			for _, f := range fines {
				fmt.Fprintf(w, "%d\t%d\t$%d.%02d\t%s\n", f.ID, f.TransactionID, f.AmountCents/100, f.AmountCents%100, f.Status)
			}
			return w.Flush()
		},
	}

	cmd.AddCommand(accrueCmd, payCmd, listCmd)
	return cmd
}

func newMembersCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "members",
		Short: "Member management",
	}

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List members",
		RunE: func(cmd *cobra.Command, args []string) error {
			members, err := a.members.ListMembers(context.Background())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tNAME\tEMAIL\tACTIVE")
			for _, m := range members {
				fmt.Fprintf(w, "%d\t%s\t%s\t%t\n", m.ID, m.Name, m.Email, m.IsActive)
			}
			return w.Flush()
		},
	}

	deactivateCmd := &cobra.Command{
		Use:   "deactivate <member-id>",
		Short: "Deactivate a member",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := a.members.Deactivate(context.Background(), id); err != nil {
				return err
			}
			fmt.Printf("member %d deactivated\n", id)
			return nil
		},
	}

	cmd.AddCommand(listCmd, deactivateCmd)
	return cmd
}

func parseID(raw string) (int32, error) {
	id, err := strconv.ParseInt(raw, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return int32(id), nil
}
