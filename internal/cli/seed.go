package cli

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/tbourn/go-recipe-backend/internal/domain"
	"github.com/tbourn/go-recipe-backend/internal/repo"
	"github.com/tbourn/go-recipe-backend/internal/services"
	"github.com/tbourn/go-recipe-backend/internal/sysutil"
)

// seedRecipe is one entry of a seed file.
type seedRecipe struct {
	Title       string   `yaml:"title"`
	Description string   `yaml:"description"`
	ImageURL    string   `yaml:"image_url"`
	Ingredients []string `yaml:"ingredients"`
	Steps       []string `yaml:"steps"`
	Category    string   `yaml:"category"`
	PrepTime    int      `yaml:"prep_time"`
	CookTime    int      `yaml:"cook_time"`
	Difficulty  string   `yaml:"difficulty"`
	Owner       string   `yaml:"owner"`
	Approved    bool     `yaml:"approved"`
}

// parseSeed decodes a YAML list of recipes. Unknown keys are rejected so
// typos do not silently drop fields.
func parseSeed(r io.Reader) ([]seedRecipe, error) {
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)

	var items []seedRecipe
	if err := dec.Decode(&items); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, nil
		}
		return nil, fmt.Errorf("decode seed file: %w", err)
	}
	return items, nil
}

// input converts the entry, keeping unknown enum values verbatim so the
// service reports them as validation errors.
func (s seedRecipe) input() services.RecipeInput {
	cat, ok := domain.ParseCategory(s.Category)
	if !ok {
		cat = domain.Category(s.Category)
	}
	diff, ok := domain.ParseDifficulty(s.Difficulty)
	if !ok {
		diff = domain.Difficulty(s.Difficulty)
	}
	return services.RecipeInput{
		Title:       s.Title,
		Description: s.Description,
		ImageURL:    s.ImageURL,
		Ingredients: s.Ingredients,
		Steps:       s.Steps,
		Category:    cat,
		PrepTime:    s.PrepTime,
		CookTime:    s.CookTime,
		Difficulty:  diff,
	}
}

func newSeedCmd(connect connectFunc) *cobra.Command {
	var (
		file    string
		owner   string
		approve bool
		strict  bool
	)

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create recipes from a YAML file",
		Example: `  recipectl seed --file recipes.yaml --owner chef-1 --approve
  cat recipes.yaml | recipectl seed --file -`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var in io.Reader = cmd.InOrStdin()
			if file != "-" {
				f, err := os.Open(file)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}
			items, err := parseSeed(in)
			if err != nil {
				return err
			}
			if len(items) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "nothing to seed")
				return nil
			}

			ctx := cmd.Context()
			db, err := connect(ctx)
			if err != nil {
				return err
			}
			svc := services.NewRecipeService(db, repo.RecipeStore{})

			var created, failed int
			for i, item := range items {
				r, err := svc.Create(ctx, sysutil.FirstNonEmpty(item.Owner, owner), item.input())
				if err == nil && (approve || item.Approved) {
					r, err = svc.Approve(ctx, r.ID)
				}
				if err != nil {
					failed++
					log.Warn().Err(err).Int("index", i).Str("title", item.Title).Msg("seed recipe failed")
					if strict {
						return fmt.Errorf("recipe %d (%q): %w", i, item.Title, err)
					}
					continue
				}
				created++
				log.Debug().Str("id", r.ID).Str("title", r.Title).Str("status", string(r.Status)).Msg("seeded")
			}

			fmt.Fprintf(cmd.OutOrStdout(), "created: %d\nfailed:  %d\n", created, failed)
			if failed > 0 {
				return fmt.Errorf("%d of %d recipe(s) failed", failed, len(items))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", `YAML file with a list of recipes ("-" reads stdin)`)
	cmd.Flags().StringVar(&owner, "owner", "seed-user", "user id owning recipes without an owner key")
	cmd.Flags().BoolVar(&approve, "approve", false, "approve every seeded recipe")
	cmd.Flags().BoolVar(&strict, "strict", false, "stop at the first failure")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}
