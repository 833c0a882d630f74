package main

import (
	"bufio"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
)

// One-shot maintenance commands for an existing content tree. These
// predate the pipeline's own stamping: stamp-ids backfills id frontmatter
// on legacy records, remove-duplicates interactively cleans up records
// sharing a slug.
func main() {
	if len(os.Args) < 3 {
		log.Fatal("Usage: migrate <stamp-ids|remove-duplicates> <content-directory>")
	}

	command := os.Args[1]
	contentDir := os.Args[2]

	switch command {
	case "stamp-ids":
		if err := stampIDs(contentDir); err != nil {
			log.Fatal(err)
		}
	case "remove-duplicates":
		if err := removeDuplicates(contentDir); err != nil {
			log.Fatal(err)
		}
	default:
		log.Fatalf("Unknown command %q", command)
	}
}

func stampIDs(contentDir string) error {
	return filepath.WalkDir(contentDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Continue on errors
		}

		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			if err := stampFile(path); err != nil {
				log.Printf("Error processing %s: %v", path, err)
			}
		}

		return nil
	})
}

func stampFile(filePath string) error {
	content, err := os.ReadFile(filePath)
	if err != nil {
		return fmt.Errorf("reading file %s: %w", filePath, err)
	}

	text := string(content)
	if !strings.HasPrefix(text, "---\n") {
		log.Printf("No frontmatter in %s, skipping", filePath)
		return nil
	}
	if extractField(text, "id") != "" {
		return nil
	}

	stamped := "---\nid: " + uuid.NewString() + "\n" + text[len("---\n"):]
	log.Printf("Stamping id on %s", filepath.Base(filePath))
	return os.WriteFile(filePath, []byte(stamped), 0644)
}

func extractField(content, field string) string {
	re := regexp.MustCompile(`(?m)^` + field + `:\s*"?([^"\n]*)"?$`)
	matches := re.FindStringSubmatch(content)
	if len(matches) >= 2 {
		return strings.TrimSpace(matches[1])
	}
	return ""
}

func removeDuplicates(contentDir string) error {
	slugToFiles := make(map[string][]string)
	reader := bufio.NewReader(os.Stdin)

	if err := filepath.WalkDir(contentDir, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil // Continue on errors
		}

		if !d.IsDir() && strings.HasSuffix(path, ".md") {
			content, err := os.ReadFile(path)
			if err != nil {
				return nil
			}
			if slug := extractField(string(content), "slug"); slug != "" {
				slugToFiles[slug] = append(slugToFiles[slug], path)
			}
		}
		return nil
	}); err != nil {
		return fmt.Errorf("walking directory: %w", err)
	}

	totalRemoved := 0
	for slug, files := range slugToFiles {
		if len(files) <= 1 {
			continue
		}

		fmt.Printf("\nFound %d records with slug %q:\n", len(files), slug)
		for i, file := range files {
			fileName := filepath.Base(file)
			if i == 0 {
				fmt.Printf("  KEEP: %s\n", fileName)
				continue
			}

			if confirmDelete(reader, file) {
				if err := os.Remove(file); err != nil {
					log.Printf("Error removing %s: %v", file, err)
				} else {
					totalRemoved++
					fmt.Printf("  REMOVED: %s\n", fileName)
				}
			} else {
				fmt.Printf("  SKIP: %s\n", fileName)
			}
		}
	}

	fmt.Printf("\nRemoved %d duplicate files\n", totalRemoved)
	return nil
}

func confirmDelete(reader *bufio.Reader, path string) bool {
	for {
		fmt.Printf("  DELETE %s? [y/N]: ", filepath.Base(path))
		input, err := reader.ReadString('\n')
		if err != nil {
			log.Printf("Error reading input: %v", err)
			return false
		}
		response := strings.ToLower(strings.TrimSpace(input))
		switch response {
		case "y", "yes":
			return true
		case "", "n", "no":
			return false
		default:
			fmt.Println("  Please enter y or n.")
		}
	}
}
