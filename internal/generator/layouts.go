package generator

import (
	"embed"
	"errors"
	"fmt"
	"io/fs"
)

// Layout file names looked up in the layout directory.
const (
	LayoutPage     = "page.html"
	LayoutPost     = "post.html"
	LayoutList     = "list.html"
	LayoutItem     = "item.html"
	LayoutFeed     = "feed.xml"
	LayoutFeedItem = "item.xml"
)

//go:embed layouts/*
var defaultLayouts embed.FS

// Layouts holds the template strings of one build. Post and List are stored
// already composed into Page.
type Layouts struct {
	Page     string
	Post     string
	List     string
	Item     string
	Feed     string
	FeedItem string
}

// LoadLayouts reads the six layouts from fsys. A file missing from fsys, or a
// nil fsys, falls back to the embedded default of the same name; any other
// read error is returned. Post and List are composed into Page by rendering
// Page with content bound to them.
func LoadLayouts(fsys fs.FS) (Layouts, error) {
	read := func(name string) (string, error) {
		if fsys != nil {
			data, err := fs.ReadFile(fsys, name)
			if err == nil {
				return string(data), nil
			}
			if !errors.Is(err, fs.ErrNotExist) {
				return "", fmt.Errorf("generator: read layout %s: %w", name, err)
			}
		}
		data, err := defaultLayouts.ReadFile("layouts/" + name)
		if err != nil {
			return "", fmt.Errorf("generator: default layout %s: %w", name, err)
		}
		return string(data), nil
	}

	var (
		layouts Layouts
		err     error
	)
	targets := []struct {
		name string
		dst  *string
	}{
		{LayoutPage, &layouts.Page},
		{LayoutPost, &layouts.Post},
		{LayoutList, &layouts.List},
		{LayoutItem, &layouts.Item},
		{LayoutFeed, &layouts.Feed},
		{LayoutFeedItem, &layouts.FeedItem},
	}
	for _, target := range targets {
		if *target.dst, err = read(target.name); err != nil {
			return Layouts{}, err
		}
	}
	return layouts.compose(), nil
}

func (l Layouts) compose() Layouts {
	l.Post = Render(l.Page, NewParams(map[string]any{ParamContent: l.Post}))
	l.List = Render(l.Page, NewParams(map[string]any{ParamContent: l.List}))
	return l
}
