// Package main seeds a storage area and the clients table with demo data.
package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"invoicedesk/internal/config"
	"invoicedesk/internal/core/tx"
	"invoicedesk/internal/domain/directory"
	"invoicedesk/internal/domain/documents"
	"invoicedesk/internal/infrastructure/storage"
	"invoicedesk/internal/infrastructure/storage/postgres/directory_repo"
	"invoicedesk/pkg/logger"
)

func main() {
	cfg, err := config.FromEnv()
	if err != nil {
		fmt.Printf("invalid configuration: %v\n", err)
		os.Exit(1)
	}

	log, err := logger.New(logger.Config{
		Level:       "info",
		Development: true,
	})
	if err != nil {
		fmt.Printf("failed to create logger: %v\n", err)
		os.Exit(1)
	}

	ctx := logger.WithLogger(context.Background(), log)

	res, err := storage.Open(ctx, cfg)
	if err != nil {
		log.Fatalw("failed to open storage", "error", err)
	}
	defer res.Close()

	if res.TxManager != nil {
		svc := directory.NewService(directory_repo.NewClientRepo(res.TxManager))
		if err := seedClients(ctx, res.TxManager, svc, log); err != nil {
			log.Fatalw("failed to seed clients", "error", err)
		}
	} else {
		log.Info("DATABASE_URL not set, skipping clients")
	}

	docs := documents.NewService(documents.ServiceConfig{Area: res.Area})
	if err := seedDocuments(ctx, docs, log); err != nil {
		log.Fatalw("failed to seed documents", "error", err)
	}

	log.Info("seeding completed successfully")
}

var demoClients = []directory.Client{
	{Name: "Acme Corp", Email: "billing@acme.test"},
	{Name: "Beta LLC", Email: "accounts@beta.test"},
	{Name: "Gamma Studio", Email: "hello@gamma.test"},
}

// seedClients inserts the demo clients in one transaction, so a failed run
// leaves the table empty and can simply be repeated.
func seedClients(ctx context.Context, txm tx.Manager, svc *directory.Service, log *logger.Logger) error {
	existing, err := svc.List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Infow("clients already present, skipping", "count", len(existing))
		return nil
	}

	return txm.RunInTransaction(ctx, func(ctx context.Context) error {
		for _, c := range demoClients {
			created, err := svc.Create(ctx, c.Name, c.Email)
			if err != nil {
				return err
			}
			log.Infow("client created", "id", created.ID, "name", created.Name)
		}
		return nil
	})
}

func seedDocuments(ctx context.Context, svc *documents.Service, log *logger.Logger) error {
	existing, err := svc.Invoices().List(ctx)
	if err != nil {
		return err
	}
	if len(existing) > 0 {
		log.Infow("documents already present, skipping", "invoices", len(existing))
		return nil
	}

	now := time.Now().UTC()
	due := now.AddDate(0, 0, 30)
	validUntil := now.AddDate(0, 0, 14)

	items := func(desc string, qty int64, price string) []documents.LineItem {
		return []documents.LineItem{{
			Description: desc,
			Quantity:    decimal.NewFromInt(qty),
			UnitPrice:   decimal.RequireFromString(price),
		}}
	}

	invoice := &documents.Invoice{
		Header: documents.Header{
			ClientName:  demoClients[0].Name,
			ClientEmail: demoClients[0].Email,
			Currency:    "USD",
			Items:       items("Website redesign", 1, "2400.00"),
			TaxRate:     decimal.NewFromInt(10),
		},
		DueDate: &due,
	}
	if err := svc.Invoices().Save(ctx, invoice); err != nil {
		return err
	}

	quotation := &documents.Quotation{
		Header: documents.Header{
			ClientName: demoClients[1].Name,
			Currency:   "USD",
			Items:      items("Monthly support", 6, "350.00"),
		},
		ValidUntil: &validUntil,
	}
	if err := svc.Quotations().Save(ctx, quotation); err != nil {
		return err
	}

	receipt := &documents.Receipt{
		Header: documents.Header{
			ClientName: demoClients[0].Name,
			Currency:   "USD",
			Items:      items("Deposit", 1, "500.00"),
		},
		PaymentMethod: "bank transfer",
	}
	if err := svc.Receipts().Save(ctx, receipt); err != nil {
		return err
	}

	log.Infow("documents created",
		"invoice", invoice.Number,
		"quotation", quotation.Number,
		"receipt", receipt.Number,
	)
	return nil
}
