package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/btcalls/newsdesk/internal/config"
	"github.com/btcalls/newsdesk/internal/store"
)

var savedCmd = &cobra.Command{
	Use:   "saved",
	Short: "List saved articles",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(config.StorePath())
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		articles, err := st.SavedArticles()
		if err != nil {
			return fmt.Errorf("reading saved articles: %w", err)
		}
		if len(articles) == 0 {
			fmt.Println("No saved articles.")
			return nil
		}
		for _, a := range articles {
			fmt.Printf("%s  %s\n    %s\n", a.PublishedAt.Format("2006-01-02"), a.Title, a.URL)
		}
		return nil
	},
}

var sourcesCmd = &cobra.Command{
	Use:   "sources",
	Short: "List known sources and their selection",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(config.StorePath())
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		srcs, err := st.Sources(false)
		if err != nil {
			return fmt.Errorf("reading sources: %w", err)
		}
		if len(srcs) == 0 {
			fmt.Println("No sources yet. Run newsdesk once to import them.")
			return nil
		}
		for _, s := range srcs {
			mark := " "
			if s.Selected {
				mark = "x"
			}
			fmt.Printf("[%s] %-30s %s\n", mark, s.Name, s.Category)
		}
		return nil
	},
}

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show local store statistics",
	RunE: func(cmd *cobra.Command, args []string) error {
		dbPath := config.StorePath()
		st, err := store.Open(dbPath)
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		nSources, nArticles, size, err := st.Stats(dbPath)
		if err != nil {
			return fmt.Errorf("reading stats: %w", err)
		}

		fmt.Printf("Store: %s\n", dbPath)
		fmt.Printf("Sources: %d\n", nSources)
		fmt.Printf("Articles: %d\n", nArticles)
		fmt.Printf("Size: %s\n", formatBytes(size))
		return nil
	},
}

var pruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Remove unsaved articles from the local store",
	Long:  "Delete cached articles that were never saved to the reading list.",
	RunE: func(cmd *cobra.Command, args []string) error {
		st, err := store.Open(config.StorePath())
		if err != nil {
			return fmt.Errorf("opening store: %w", err)
		}
		defer st.Close()

		deleted, err := st.PruneUnsaved()
		if err != nil {
			return fmt.Errorf("pruning: %w", err)
		}
		if deleted == 0 {
			fmt.Println("Nothing to prune.")
		} else {
			fmt.Printf("Pruned %d article(s).\n", deleted)
		}
		return nil
	},
}

func formatBytes(b int64) string {
	switch {
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}
