package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ccdr-explorer/corpus/domain/corpus"
	"github.com/ccdr-explorer/corpus/infrastructure/persistence"
	"github.com/ccdr-explorer/corpus/infrastructure/search"
	"github.com/ccdr-explorer/corpus/internal/config"
)

func newSearchCommand() *cobra.Command {
	var (
		envFile       string
		publicationID int64
		documentID    int64
		tagNames      []string
		sectionTypes  []string
		geographies   []string
		limit         int
	)

	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Semantic search over the corpus content",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, _, err := setupRuntime()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if !cmd.Flags().Changed("env") {
				envFile = env.SourceEnvFile
			}
			if !cmd.Flags().Changed("limit") {
				limit = env.SearchLimit
			}

			_, db, err := openEndpoint(ctx, envFile)
			if err != nil {
				return err
			}
			defer db.Close()

			searchCfg := env.ToSearchConfig()
			embedder, err := search.NewOpenAIEmbedder(searchCfg)
			if err != nil {
				return err
			}
			svc := search.NewService(db, embedder, searchCfg)

			results, err := svc.Search(ctx, args[0], search.Filters{
				PublicationID: publicationID,
				DocumentID:    documentID,
				TagNames:      tagNames,
				SectionTypes:  sectionTypes,
				Geographies:   geographies,
				Limit:         limit,
			})
			if err != nil {
				return err
			}
			if len(results) == 0 {
				cmd.Println("no results")
				return nil
			}

			nodes, err := svc.Nodes(ctx, results)
			if err != nil {
				return err
			}
			nodesByID := make(map[int64]corpus.Node, len(nodes))
			for _, n := range nodes {
				nodesByID[n.ID] = n
			}

			pubs, err := persistence.NewStore(db).Publications(ctx)
			if err != nil {
				return err
			}
			titles := make(map[int64]string, len(pubs))
			for _, p := range pubs {
				titles[p.ID] = p.Title
			}

			for i, r := range results {
				cmd.Printf("%2d. [%.4f] node=%d doc=%d %s/%s %s%s\n",
					i+1, r.Similarity, r.NodeID, r.DocumentID,
					r.TagName, r.SectionType,
					titles[r.PublicationID], pageRef(nodesByID[r.NodeID]))
				if text := strings.TrimSpace(r.Text); text != "" {
					cmd.Println("    " + truncate(text, 160))
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&envFile, "env", config.DefaultSourceEnvFile,
		"dotenv file describing the database to query")
	cmd.Flags().Int64Var(&publicationID, "publication", 0, "restrict to one publication id")
	cmd.Flags().Int64Var(&documentID, "document", 0, "restrict to one document id")
	cmd.Flags().StringSliceVar(&tagNames, "tag", nil, "restrict to node tag names")
	cmd.Flags().StringSliceVar(&sectionTypes, "section", nil, "restrict to section types")
	cmd.Flags().StringSliceVar(&geographies, "geography", nil,
		"restrict to publication geographies (ISO3 codes or aggregate regions)")
	cmd.Flags().IntVar(&limit, "limit", config.DefaultSearchLimit, "maximum number of results")
	return cmd
}

func pageRef(n corpus.Node) string {
	if len(n.PositionalData) == 0 {
		return ""
	}
	return fmt.Sprintf(" (p.%d)", n.PositionalData[0].PagePDF)
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
