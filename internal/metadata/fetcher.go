package metadata

import (
	"context"
	"encoding/base64"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"

	"github.com/feral-file/ff-nft-lifecycle/internal/adapter"
	"github.com/feral-file/ff-nft-lifecycle/internal/domain"
	"github.com/feral-file/ff-nft-lifecycle/internal/logger"
)

var (
	// ErrNotJSON is returned when a metadata document is not a JSON object
	ErrNotJSON = errors.New("metadata is not a JSON object")
	// ErrInvalidField is returned when a known field has the wrong type
	ErrInvalidField = errors.New("invalid metadata field")
	// ErrUnsupportedURI is returned for schemes the fetcher cannot load
	ErrUnsupportedURI = errors.New("unsupported metadata uri")
)

// knownFields are mapped onto NFTMetadata; everything else is kept as an extension
var knownFields = map[string]bool{
	"name":          true,
	"description":   true,
	"image":         true,
	"animation_url": true,
	"external_url":  true,
	"attributes":    true,
	"rarity":        true,
	"tier":          true,
	"platform":      true,
}

// Fetcher loads and validates ERC-721 metadata documents
//
//go:generate mockgen -source=fetcher.go -destination=../mocks/metadata_fetcher.go -package=mocks -mock_names=Fetcher=MockMetadataFetcher
type Fetcher interface {
	// Fetch downloads the document at uri (http(s) or data:) and parses it
	Fetch(ctx context.Context, uri string) (*domain.NFTMetadata, error)
}

type fetcher struct {
	httpClient adapter.HTTPClient
}

// NewFetcher creates a Fetcher
func NewFetcher(httpClient adapter.HTTPClient) Fetcher {
	return &fetcher{httpClient: httpClient}
}

func (f *fetcher) Fetch(ctx context.Context, uri string) (*domain.NFTMetadata, error) {
	var data []byte
	var err error

	switch {
	case strings.HasPrefix(uri, "data:"):
		data, err = decodeDataURI(uri)
	case strings.HasPrefix(uri, "http://") || strings.HasPrefix(uri, "https://"):
		data, err = f.httpClient.GetBytes(ctx, uri)
		if err != nil {
			err = fmt.Errorf("failed to fetch metadata: %w", err)
		}
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedURI, uri)
	}
	if err != nil {
		return nil, err
	}

	meta, err := Parse(data)
	if err != nil {
		logger.DebugCtx(ctx, "Invalid metadata document", zap.String("uri", uri), zap.Error(err))
		return nil, err
	}
	return meta, nil
}

// ExpandTokenURI substitutes the ERC-1155 style {id} placeholder with the token id
func ExpandTokenURI(uri, tokenID string) string {
	return strings.ReplaceAll(strings.TrimSpace(uri), "{id}", tokenID)
}

// Parse validates a raw metadata document and maps it onto NFTMetadata
func Parse(data []byte) (*domain.NFTMetadata, error) {
	if mt := mimetype.Detect(data); !isJSON(mt) {
		return nil, fmt.Errorf("%w: detected %s", ErrNotJSON, mt.String())
	}
	if !gjson.ValidBytes(data) {
		return nil, ErrNotJSON
	}
	doc := gjson.ParseBytes(data)
	if !doc.IsObject() {
		return nil, ErrNotJSON
	}

	meta := &domain.NFTMetadata{}
	var err error
	if meta.Name, err = stringField(doc, "name"); err != nil {
		return nil, err
	}
	if meta.Description, err = stringField(doc, "description"); err != nil {
		return nil, err
	}
	if meta.Image, err = stringField(doc, "image"); err != nil {
		return nil, err
	}
	if meta.AnimationURL, err = stringField(doc, "animation_url"); err != nil {
		return nil, err
	}
	if meta.ExternalURL, err = stringField(doc, "external_url"); err != nil {
		return nil, err
	}

	// ArtBlocks style documents carry the live view in generator_url
	if meta.AnimationURL == "" {
		if g := doc.Get("generator_url"); g.Type == gjson.String {
			meta.AnimationURL = g.String()
		}
	}

	if meta.Attributes, err = attributes(doc); err != nil {
		return nil, err
	}

	rarity := doc.Get("rarity").String()
	meta.Tier = doc.Get("tier").String()
	meta.Platform = doc.Get("platform").String()
	for _, attr := range meta.Attributes {
		value, ok := attr.Value.(string)
		if !ok {
			continue
		}
		switch strings.ToLower(attr.TraitType) {
		case "rarity":
			if rarity == "" {
				rarity = value
			}
		case "tier":
			if meta.Tier == "" {
				meta.Tier = value
			}
		case "platform":
			if meta.Platform == "" {
				meta.Platform = value
			}
		}
	}
	meta.Rarity = resolveRarity(rarity, meta.Tier, meta.Name)

	doc.ForEach(func(key, value gjson.Result) bool {
		if knownFields[key.String()] {
			return true
		}
		if meta.Extensions == nil {
			meta.Extensions = make(map[string]interface{})
		}
		meta.Extensions[key.String()] = value.Value()
		return true
	})
	if artist := resolveArtist(doc); artist != "" {
		if meta.Extensions == nil {
			meta.Extensions = make(map[string]interface{})
		}
		if _, ok := meta.Extensions["artist"]; !ok {
			meta.Extensions["artist"] = artist
		}
	}

	return meta, nil
}

// isJSON accepts JSON and its specializations such as GeoJSON
func isJSON(mt *mimetype.MIME) bool {
	for m := mt; m != nil; m = m.Parent() {
		if m.Is("application/json") {
			return true
		}
	}
	return false
}

// resolveRarity prefers an explicit rarity, then the tier, then a rarity
// word in the name
func resolveRarity(explicit, tier, name string) domain.Rarity {
	if explicit != "" {
		return domain.ParseRarity(explicit)
	}
	if r, ok := domain.RarityFromText(tier); ok {
		return r
	}
	r, _ := domain.RarityFromText(name)
	return r
}

func stringField(doc gjson.Result, key string) (string, error) {
	v := doc.Get(gjson.Escape(key))
	switch v.Type {
	case gjson.Null:
		return "", nil
	case gjson.String:
		return strings.TrimSpace(v.String()), nil
	default:
		return "", fmt.Errorf("%w: %s must be a string", ErrInvalidField, key)
	}
}

func attributes(doc gjson.Result) ([]domain.Attribute, error) {
	v := doc.Get("attributes")
	if !v.Exists() || v.Type == gjson.Null {
		return nil, nil
	}
	if !v.IsArray() {
		return nil, fmt.Errorf("%w: attributes must be an array", ErrInvalidField)
	}

	var attrs []domain.Attribute
	for _, a := range v.Array() {
		if !a.IsObject() {
			continue
		}
		traitType := a.Get("trait_type")
		if traitType.Type != gjson.String {
			continue
		}
		attrs = append(attrs, domain.Attribute{
			TraitType: traitType.String(),
			Value:     a.Get("value").Value(),
		})
	}
	return attrs, nil
}

// resolveArtist finds the creator across the common metadata conventions
func resolveArtist(doc gjson.Result) string {
	if a := doc.Get("artist"); a.Type == gjson.String {
		return a.String()
	}

	for _, key := range []string{"traits", "attributes"} {
		for _, trait := range doc.Get(key).Array() {
			switch strings.ToLower(trait.Get("trait_type").String()) {
			case "artist", "creator":
				if v := trait.Get("value"); v.Type == gjson.String {
					return v.String()
				}
			}
		}
	}

	if c := doc.Get("collection_name").String(); c != "" {
		if _, artist, ok := strings.Cut(c, " by "); ok {
			return artist
		}
	}

	for _, key := range []string{"createdBy", "created_by", "creator"} {
		if v := doc.Get(key); v.Type == gjson.String {
			return v.String()
		}
	}
	return ""
}

// decodeDataURI returns the payload of data:application/json[;base64],<data>
func decodeDataURI(uri string) ([]byte, error) {
	header, payload, ok := strings.Cut(strings.TrimPrefix(uri, "data:"), ",")
	if !ok {
		return nil, fmt.Errorf("%w: invalid data uri", ErrUnsupportedURI)
	}

	if strings.Contains(header, "base64") {
		decoded, err := base64.StdEncoding.DecodeString(payload)
		if err != nil {
			return nil, fmt.Errorf("failed to decode base64: %w", err)
		}
		return decoded, nil
	}

	unescaped, err := url.PathUnescape(payload)
	if err != nil {
		return []byte(payload), nil
	}
	return []byte(unescaped), nil
}
