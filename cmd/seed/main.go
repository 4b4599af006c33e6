package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"lexflow/backend/internal/auth"
	"lexflow/backend/internal/config"
	"lexflow/backend/internal/extraction"
	"lexflow/backend/internal/logging"
	"lexflow/backend/internal/repository"
	"lexflow/backend/internal/services"
	"lexflow/backend/pkg/models"
)

// sampleDocuments holds a short document for each catalog template.
var sampleDocuments = map[string]struct {
	Filename string
	Text     string
}{
	"incorporation": {
		Filename: "certificate_of_incorporation.txt",
		Text: "CERTIFICATE OF INCORPORATION OF [Company Name]\n\n" +
			"The name of the corporation is [Company Name], a Delaware corporation.\n" +
			"The corporation is authorized to issue [Number of Shares] shares of Common Stock.\n" +
			"The name of the incorporator is [Incorporator Name], whose mailing address is [Incorporator Address].\n" +
			"Dated: [Filing Date]\n",
	},
	"employee-agreement": {
		Filename: "offer_letter.txt",
		Text: "EMPLOYMENT AGREEMENT\n\n" +
			"This agreement is made between {Company Name} and {Employee Name}.\n" +
			"The employee will start on {Start Date} at an annual salary of {Annual Salary}.\n" +
			"Notices shall be sent to {Employee Email}.\n" +
			"This agreement is governed by the laws of the State of California.\n" +
			"Signature: ________\n",
	},
	"custom-doc": {
		Filename: "mutual_nda.txt",
		Text: "MUTUAL NON-DISCLOSURE AGREEMENT\n\n" +
			"This Non-Disclosure Agreement is entered into on __Effective Date__ between " +
			"__Disclosing Party__ and __Receiving Party__.\n" +
			"Confidential information must be returned within [Return Period] days.\n",
	},
}

func main() {
	ctx := context.Background()

	configFile := flag.String("config", "", "Path to config file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
	logger, err := logging.NewLogger(cfg.Log.Level, "console")
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	pool, err := pgxpool.New(ctx, cfg.DSN())
	if err != nil {
		log.Fatalf("Failed to connect to DB: %v", err)
	}
	defer pool.Close()

	store := repository.NewPostgresStore(pool)
	if err := store.Migrate(ctx); err != nil {
		log.Fatalf("Failed to migrate DB: %v", err)
	}

	// 1. Ensure the development owner exists
	owner, err := store.GetOwnerByEmail(ctx, auth.DevEmail)
	if errors.Is(err, repository.ErrNotFound) {
		logger.Info("Creating development owner", "email", auth.DevEmail)
		owner = &models.Owner{
			ID:        uuid.New().String(),
			Email:     auth.DevEmail,
			Name:      "Local Developer",
			CreatedAt: time.Now().UTC(),
		}
		if err := store.CreateOwner(ctx, owner); err != nil {
			log.Fatalf("Failed to create owner: %v", err)
		}
	} else if err != nil {
		log.Fatalf("Failed to look up owner: %v", err)
	} else {
		logger.Info("Found existing owner", "id", owner.ID)
	}

	// 2. Check for existing workflows to prevent duplicates
	existing, err := store.ListWorkflows(ctx, owner.ID)
	if err != nil {
		log.Fatalf("Failed to list existing workflows: %v", err)
	}
	seeded := make(map[string]bool)
	for _, wf := range existing {
		seeded[wf.TemplateID] = true
	}

	// 3. Create one extracted workflow per template
	svc := services.NewWorkflowService(store, extraction.NewExtractor(nil), logger)
	for _, tmpl := range models.Templates {
		if seeded[tmpl.ID] {
			logger.Info("Skipping existing workflow", "template_id", tmpl.ID)
			continue
		}
		doc, ok := sampleDocuments[tmpl.ID]
		if !ok {
			continue
		}

		wf, err := svc.CreateWorkflow(ctx, owner.ID, tmpl.ID)
		if err != nil {
			log.Printf("Failed to create workflow %s: %v", tmpl.ID, err)
			continue
		}
		wf, err = svc.UploadDocument(ctx, owner.ID, wf.ID, doc.Filename, doc.Text)
		if err != nil {
			log.Printf("Failed to upload %s: %v", doc.Filename, err)
			continue
		}
		logger.Info("Seeded workflow", "name", wf.Name, "id", wf.ID, "fields", len(wf.Fields))
	}
	logger.Info("Seeding complete!")
}
