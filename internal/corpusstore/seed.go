package corpusstore

// Seed populates an empty store with a handful of demo packages, so a
// freshly started search-server has something to search without an
// external ingestion pipeline. It is a no-op once any document exists.
func Seed(s *Store) error {
	count := 0
	if err := s.IterateDocuments(func(Document) error {
		count++
		return nil
	}); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	for _, doc := range demoDocuments {
		if err := s.SaveDocument(doc); err != nil {
			return err
		}
	}
	return nil
}

var demoDocuments = []Document{
	{
		ID:          "http",
		Name:        "http",
		Description: "A composable, multi-platform HTTP client.",
		Readme:      "# http\n\nA composable, **Future**-based library for making HTTP requests.",
		APISymbols:  "Client Request Response get post put delete",
		Tags:        []string{"sdk:dart", "sdk:flutter", "topic:network"},
		OrderingFields: map[string]float64{
			"updated": 20, "likes": 9800, "points": 140, "popularity": 99,
		},
	},
	{
		ID:          "yaml",
		Name:        "yaml",
		Description: "A parser for YAML, a human-friendly data serialization standard.",
		Readme:      "# yaml\n\nParses YAML documents into Dart objects and back.",
		APISymbols:  "loadYaml YamlMap YamlList YamlScalar",
		Tags:        []string{"sdk:dart", "topic:parsing"},
		OrderingFields: map[string]float64{
			"updated": 45, "likes": 2100, "points": 140, "popularity": 95,
		},
	},
	{
		ID:          "http_parser",
		Name:        "http_parser",
		Description: "A pure Dart low-level HTTP message parser, used by the http package.",
		Readme:      "# http_parser\n\nLow level parsing of HTTP requests and responses.",
		APISymbols:  "HttpParser MessageType",
		Tags:        []string{"sdk:dart", "topic:network", "is:discontinued"},
		OrderingFields: map[string]float64{
			"updated": 900, "likes": 410, "points": 120, "popularity": 70,
		},
	},
	{
		ID:          "widget_gallery",
		Name:        "widget_gallery",
		Description: "Example Flutter widgets demonstrating layout and animation.",
		Readme:      "# widget_gallery\n\nA showcase of common Flutter **widget** patterns.",
		APISymbols:  "GalleryPage GalleryCard AnimatedWidget",
		Tags:        []string{"sdk:flutter", "topic:ui", "is:unlisted"},
		OrderingFields: map[string]float64{
			"updated": 300, "likes": 12, "points": 80, "popularity": 20,
		},
	},
	{
		ID:          "path",
		Name:        "path",
		Description: "A comprehensive, cross-platform path manipulation library.",
		Readme:      "# path\n\nManipulates paths in a way that works on all platforms.",
		APISymbols:  "join normalize relative dirname basename extension",
		Tags:        []string{"sdk:dart", "topic:io"},
		OrderingFields: map[string]float64{
			"updated": 10, "likes": 8800, "points": 140, "popularity": 99,
		},
	},
}
