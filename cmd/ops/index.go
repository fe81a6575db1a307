package main

import (
	"flag"
	"log"

	"github.com/dsfolio/dsfolio/config"
	"github.com/dsfolio/dsfolio/internal/content"
)

// RunIndex builds the content index once and writes the JSON artifacts,
// for static hosting setups that serve them as files.
func RunIndex(args []string) {
	fs := flag.NewFlagSet("index", flag.ExitOnError)
	outDir := fs.String("out", "", "output directory (defaults to CONTENT_INDEX_DIR)")
	drafts := fs.Bool("drafts", false, "include draft content")
	_ = fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}
	if *outDir == "" {
		*outDir = cfg.Content.IndexDir
	}

	idx, err := content.Build(content.BuildOptions{Root: cfg.Content.Root, IncludeDrafts: *drafts})
	if err != nil {
		log.Fatalf("content: %v", err)
	}
	if err := idx.WriteFiles(*outDir); err != nil {
		log.Fatalf("write index: %v", err)
	}

	log.Printf("wrote index to %s: %d projects, %d posts, %d pages",
		*outDir, len(idx.Projects), len(idx.Posts), len(idx.Pages))
}
