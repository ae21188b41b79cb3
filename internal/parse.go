package internal

import (
	"encoding/json"
	"fmt"

	"github.com/jamesprial/go-reddit-stream/pkg/types"
)

// Parser decodes listing responses into typed items.
type Parser struct{}

// NewParser creates a new parser instance.
func NewParser() *Parser {
	return &Parser{}
}

// ParseListing extracts ListingData from a Thing of kind "Listing".
func (p *Parser) ParseListing(thing *types.Thing) (*types.ListingData, error) {
	if thing == nil {
		return nil, fmt.Errorf("thing is nil")
	}
	if thing.Kind != "Listing" {
		return nil, fmt.Errorf("expected Listing, got %s", thing.Kind)
	}

	var listing types.ListingData
	if err := json.Unmarshal(thing.Data, &listing); err != nil {
		return nil, fmt.Errorf("failed to parse Listing data: %w", err)
	}
	return &listing, nil
}

// ParsePost extracts a Post from a Thing of kind "t3".
func (p *Parser) ParsePost(thing *types.Thing) (*types.Post, error) {
	if thing == nil {
		return nil, fmt.Errorf("thing is nil")
	}
	if thing.Kind != "t3" {
		return nil, fmt.Errorf("expected t3 (Link), got %s", thing.Kind)
	}

	var post types.Post
	if err := json.Unmarshal(thing.Data, &post); err != nil {
		return nil, fmt.Errorf("failed to parse Link data: %w", err)
	}
	return &post, nil
}

// ParseComment extracts a Comment from a Thing of kind "t1". Replies are not
// followed; listing streams are flat.
func (p *Parser) ParseComment(thing *types.Thing) (*types.Comment, error) {
	if thing == nil {
		return nil, fmt.Errorf("thing is nil")
	}
	if thing.Kind != "t1" {
		return nil, fmt.Errorf("expected t1 (Comment), got %s", thing.Kind)
	}

	var comment types.Comment
	if err := json.Unmarshal(thing.Data, &comment); err != nil {
		return nil, fmt.Errorf("failed to parse Comment data: %w", err)
	}
	return &comment, nil
}

// ExtractPosts collects all posts from a listing Thing, preserving the
// listing order. Children of other kinds are skipped.
func (p *Parser) ExtractPosts(listing *types.Thing) ([]*types.Post, *types.ListingData, error) {
	listingData, err := p.ParseListing(listing)
	if err != nil {
		return nil, nil, err
	}

	posts := make([]*types.Post, 0, len(listingData.Children))
	for _, child := range listingData.Children {
		if child == nil || child.Kind != "t3" {
			continue
		}
		post, err := p.ParsePost(child)
		if err != nil {
			continue
		}
		posts = append(posts, post)
	}
	return posts, listingData, nil
}

// ExtractComments collects all comments from a flat listing Thing,
// preserving the listing order.
func (p *Parser) ExtractComments(listing *types.Thing) ([]*types.Comment, *types.ListingData, error) {
	listingData, err := p.ParseListing(listing)
	if err != nil {
		return nil, nil, err
	}

	comments := make([]*types.Comment, 0, len(listingData.Children))
	for _, child := range listingData.Children {
		if child == nil || child.Kind != "t1" {
			continue
		}
		comment, err := p.ParseComment(child)
		if err != nil {
			continue
		}
		comments = append(comments, comment)
	}
	return comments, listingData, nil
}
