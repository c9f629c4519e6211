package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/aldrinstellus/worksearch/internal/core/domain"
	"github.com/aldrinstellus/worksearch/internal/logger"
)

var loadCmd = &cobra.Command{
	Use:   "load [file.json]",
	Short: "Bulk-load content records",
	Long: `Loads content records from a JSON file into the configured record
store. Records without an ID get a generated one. When an embedding
service is configured, knowledge base records are also embedded and
added to the vector index.

The file holds an array of records:
  [{"kind": "articles", "title": "...", "body": "...",
    "contentType": "article", "organizationId": "..."}]`,
	Args: cobra.ExactArgs(1),
	RunE: runLoad,
}

func init() {
	rootCmd.AddCommand(loadCmd)
}

// loadRecord is the file format for one record.
type loadRecord struct {
	ID             string         `json:"id,omitempty"`
	Kind           string         `json:"kind"`
	OrganizationID string         `json:"organizationId,omitempty"`
	OwnerID        string         `json:"ownerId,omitempty"`
	SpaceID        string         `json:"spaceId,omitempty"`
	Title          string         `json:"title"`
	Body           string         `json:"body,omitempty"`
	ContentType    string         `json:"contentType"`
	Tags           []string       `json:"tags,omitempty"`
	Metadata       map[string]any `json:"metadata,omitempty"`
	PublishedAt    string         `json:"publishedAt,omitempty"`
}

func runLoad(cmd *cobra.Command, args []string) error {
	a, err := newApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close()

	data, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading %s: %w", args[0], err)
	}

	var entries []loadRecord
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("parsing %s: %w", args[0], err)
	}

	ctx := cmd.Context()
	loaded, indexed := 0, 0
	for i := range entries {
		rec, err := toDomainRecord(entries[i])
		if err != nil {
			return fmt.Errorf("record %d: %w", i, err)
		}

		if err := a.store.Save(ctx, rec); err != nil {
			return fmt.Errorf("saving record %s: %w", rec.ID, err)
		}
		loaded++

		if a.embed != nil && isKnowledgeKind(rec.Kind) {
			vec, err := a.embed.Embed(ctx, rec.Title+"\n"+rec.Body)
			if err != nil {
				logger.Warn("embedding record %s failed, skipping index: %v", rec.ID, err)
				continue
			}
			if err := a.index.Add(ctx, rec.Kind, rec.ID, vec); err != nil {
				return fmt.Errorf("indexing record %s: %w", rec.ID, err)
			}
			indexed++
		}
	}

	cmd.Printf("loaded %d records (%d embedded)\n", loaded, indexed)
	return nil
}

func toDomainRecord(entry loadRecord) (*domain.Record, error) {
	kind, err := domain.ParseSourceKind(entry.Kind)
	if err != nil {
		return nil, err
	}
	if entry.Title == "" {
		return nil, fmt.Errorf("title is required")
	}

	id := entry.ID
	if id == "" {
		id = uuid.NewString()
	}

	rec := &domain.Record{
		ID:             id,
		Kind:           kind,
		OrganizationID: entry.OrganizationID,
		OwnerID:        entry.OwnerID,
		SpaceID:        entry.SpaceID,
		Title:          entry.Title,
		Body:           entry.Body,
		ContentType:    entry.ContentType,
		Tags:           entry.Tags,
		Metadata:       entry.Metadata,
	}
	if entry.PublishedAt != "" {
		if rec.PublishedAt, err = time.Parse(time.RFC3339, entry.PublishedAt); err != nil {
			return nil, fmt.Errorf("publishedAt: %w", err)
		}
	}
	return rec, nil
}

func isKnowledgeKind(kind domain.SourceKind) bool {
	return kind == domain.SourceInternalKB || kind == domain.SourceKnowledgeItems
}
