// Public domain.

// Package resolve turns object names into sky positions using the CDS
// Sesame name resolver.
package resolve

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/swiftarchive/obsselect/internal/cone"
)

// DefaultURL is the Sesame endpoint queried for XML output from SIMBAD,
// NED and VizieR in that order.
const DefaultURL = "https://cds.unistra.fr/cgi-bin/nph-sesame/-oxp/SNV"

// NameResolutionError reports an object name with no known position.
type NameResolutionError struct {
	Name string
	Err  error // transport or decoding failure, nil if simply not found
}

func (e *NameResolutionError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("object %q not resolved: %v", e.Name, e.Err)
	}
	return fmt.Sprintf("object %q not resolved", e.Name)
}

func (e *NameResolutionError) Unwrap() error { return e.Err }

// Client resolves names against a Sesame service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *slog.Logger
}

// NewClient creates a Sesame client.  An empty baseURL selects DefaultURL.
func NewClient(baseURL string, timeout time.Duration, logger *slog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultURL
	}
	return &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
		logger:     logger,
	}
}

// Resolve returns the ICRS position of the named object.
//
// Errors are *NameResolutionError.
func (c *Client) Resolve(ctx context.Context, name string) (cone.Position, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return cone.Position{}, &NameResolutionError{Name: name}
	}
	u := c.baseURL + "?" + url.PathEscape(name)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return cone.Position{}, &NameResolutionError{Name: name, Err: err}
	}
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return cone.Position{}, &NameResolutionError{Name: name, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return cone.Position{}, &NameResolutionError{Name: name,
			Err: fmt.Errorf("sesame status %d: %s", resp.StatusCode, body)}
	}

	var doc sesame
	if err := xml.NewDecoder(resp.Body).Decode(&doc); err != nil {
		return cone.Position{}, &NameResolutionError{Name: name,
			Err: fmt.Errorf("decode response: %w", err)}
	}
	for _, t := range doc.Targets {
		for _, r := range t.Resolvers {
			pos, ok := r.position()
			if !ok {
				continue
			}
			c.logger.Debug("name resolved", "name", name, "resolver", r.Name,
				"ra", pos.RA, "dec", pos.Dec)
			return pos, nil
		}
	}
	return cone.Position{}, &NameResolutionError{Name: name}
}

// Sesame XML response, only the parts used here.
type sesame struct {
	Targets []target `xml:"Target"`
}

type target struct {
	Resolvers []resolver `xml:"Resolver"`
}

type resolver struct {
	Name  string `xml:"name,attr"`
	RADeg string `xml:"jradeg"`
	DeDeg string `xml:"jdedeg"`
}

func (r resolver) position() (cone.Position, bool) {
	ra, err := strconv.ParseFloat(strings.TrimSpace(r.RADeg), 64)
	if err != nil {
		return cone.Position{}, false
	}
	dec, err := strconv.ParseFloat(strings.TrimSpace(r.DeDeg), 64)
	if err != nil {
		return cone.Position{}, false
	}
	return cone.Position{RA: ra, Dec: dec}, true
}
