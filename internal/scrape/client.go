// Package scrape pulls official army books from the army-forge API into
// the file tree the store serves: <out>/<system>/<version>/<Name (uid)>.json.
package scrape

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/sirupsen/logrus"

	"armycompare/internal/army"
	"armycompare/internal/store"
)

const DefaultBaseURL = "https://army-forge.onepagerules.com"

// System pairs an army-forge game system id with its URL slug.
type System struct {
	ID   int
	Slug string
}

var DefaultSystems = []System{
	{2, "grimdark-future"},
	{3, "grimdark-future-firefight"},
	{4, "age-of-fantasy"},
	{5, "age-of-fantasy-skirmish"},
}

type Client struct {
	base  string
	http  *http.Client
	log   *logrus.Logger
	delay time.Duration
}

func NewClient(base string, log *logrus.Logger) *Client {
	return &Client{
		base:  strings.TrimRight(base, "/"),
		http:  &http.Client{Timeout: 30 * time.Second},
		log:   log,
		delay: 500 * time.Millisecond,
	}
}

func (c *Client) get(ctx context.Context, path string, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+path, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("api status %d for %s", resp.StatusCode, path)
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// Book is one entry of the remote army book listing.
type Book struct {
	UID  string `json:"uid"`
	Name string `json:"name"`
}

// ListBooks fetches the official army book summaries for one system.
func (c *Client) ListBooks(ctx context.Context, sys System) ([]Book, error) {
	q := url.Values{}
	q.Set("filters", "official")
	q.Set("gameSystemSlug", sys.Slug)
	var books []Book
	if err := c.get(ctx, "/api/army-books?"+q.Encode(), &books); err != nil {
		return nil, fmt.Errorf("list %s: %w", sys.Slug, err)
	}
	return books, nil
}

// FetchBook fetches one full army document.
func (c *Client) FetchBook(ctx context.Context, sys System, uid string) (*army.Document, error) {
	path := fmt.Sprintf("/api/army-books/%s?gameSystem=%d", url.PathEscape(uid), sys.ID)
	var doc army.Document
	if err := c.get(ctx, path, &doc); err != nil {
		return nil, fmt.Errorf("fetch %s/%s: %w", sys.Slug, uid, err)
	}
	return &doc, nil
}

// FetchAll scrapes every listed army of every system into outDir and
// regenerates the manifests. Per-army failures are logged and skipped;
// only listing failures and write failures abort.
func (c *Client) FetchAll(ctx context.Context, outDir string, systems []System) error {
	for _, sys := range systems {
		books, err := c.ListBooks(ctx, sys)
		if err != nil {
			return err
		}
		c.log.WithFields(logrus.Fields{"system": sys.Slug, "armies": len(books)}).Info("scraping system")

		for _, b := range books {
			doc, err := c.FetchBook(ctx, sys, b.UID)
			if err != nil {
				c.log.WithError(err).WithField("army", b.Name).Warn("skipping army")
				continue
			}
			if err := writeBook(outDir, sys.Slug, doc); err != nil {
				return err
			}
			c.log.WithFields(logrus.Fields{
				"army":    doc.Name,
				"version": doc.VersionString,
			}).Info("saved")

			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(c.delay):
			}
		}
	}
	return store.New(outDir).WriteManifests()
}

func writeBook(outDir, slug string, doc *army.Document) error {
	version := doc.VersionString
	if version == "" {
		version = "unversioned"
	}
	dir := filepath.Join(outDir, slug, version)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	name := sanitizeFilename(fmt.Sprintf("%s (%s)", doc.Name, doc.UID))
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	path := filepath.Join(dir, name+".json")
	// write atomically
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}

// sanitizeFilename keeps alnum, space, dash, underscore and parens;
// anything else becomes '-'.
func sanitizeFilename(name string) string {
	b := make([]rune, 0, len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b = append(b, r)
		case r == ' ', r == '-', r == '_', r == '(', r == ')':
			b = append(b, r)
		default:
			b = append(b, '-')
		}
	}
	out := strings.TrimSpace(string(b))
	if out == "" {
		out = "army"
	}
	return out
}
