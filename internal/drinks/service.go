package drinks

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	dbpkg "github.com/angelmondragon/speakeasy-backend/pkg/db"
	"github.com/angelmondragon/speakeasy-backend/pkg/db/models"
	pkgerrors "github.com/angelmondragon/speakeasy-backend/pkg/errors"
	"github.com/angelmondragon/speakeasy-backend/pkg/logger"
)

const (
	listFailedMessage  = "Error fetching ingredients."
	buildFailedMessage = "Error building custom drink"
)

var roles = [3]string{"base", "mixer", "garnish"}

type ingredientsRepository interface {
	List(ctx context.Context) ([]models.Ingredient, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Ingredient, error)
	FindByName(ctx context.Context, name string) (*models.Ingredient, error)
}

// Service lists ingredients and builds custom drinks from them.
type Service interface {
	ListIngredients(ctx context.Context) ([]models.Ingredient, error)
	BuildDrink(ctx context.Context, input BuildInput) (*Drink, error)
}

type service struct {
	repo ingredientsRepository
	logg *logger.Logger
}

func NewService(repo ingredientsRepository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("ingredient repository required")
	}
	return &service{repo: repo, logg: logg}, nil
}

func (s *service) ListIngredients(ctx context.Context) ([]models.Ingredient, error) {
	rows, err := s.repo.List(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "list ingredients").WithPublicMessage(listFailedMessage)
	}
	return rows, nil
}

type selection struct {
	id   string
	name string
}

func (s *service) BuildDrink(ctx context.Context, input BuildInput) (*Drink, error) {
	selections := [3]selection{
		{id: strings.TrimSpace(input.BaseID), name: strings.TrimSpace(input.BaseName)},
		{id: strings.TrimSpace(input.MixerID), name: strings.TrimSpace(input.MixerName)},
		{id: strings.TrimSpace(input.GarnishID), name: strings.TrimSpace(input.GarnishName)},
	}

	var missingRoles []string
	for i, sel := range selections {
		if sel.id == "" && sel.name == "" {
			missingRoles = append(missingRoles, roles[i])
		}
	}
	if len(missingRoles) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "Missing ingredient selections. Provide either IDs or names for base, mixer, and garnish.").
			WithDetails(map[string]any{"missingRoles": missingRoles})
	}

	var resolved [3]*models.Ingredient
	g, gctx := errgroup.WithContext(ctx)
	for i, sel := range selections {
		g.Go(func() error {
			ing, err := s.resolve(gctx, sel)
			if err != nil {
				return fmt.Errorf("resolve %s: %w", roles[i], err)
			}
			resolved[i] = ing
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "build drink").WithPublicMessage(buildFailedMessage)
	}

	var notFound []string
	for i, ing := range resolved {
		if ing == nil {
			notFound = append(notFound, roles[i])
		}
	}
	if len(notFound) > 0 {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "Ingredient(s) not found: "+strings.Join(notFound, ", ")).
			WithDetails(map[string]any{"missingRoles": notFound})
	}

	base, mixer, garnish := resolved[0], resolved[1], resolved[2]
	drink := &Drink{
		Name:         DrinkName(base.Name, mixer.Name, garnish.Name),
		Ingredients:  []string{base.Name, mixer.Name, garnish.Name},
		EstimatedABV: fmt.Sprintf("%d%%", EstimateABV(*base, *mixer)),
	}
	if s.logg != nil {
		s.logg.Info(s.logg.WithField(ctx, "drink", drink.Name), "custom drink built")
	}
	return drink, nil
}

// resolve returns nil without error when the selection matches nothing.
func (s *service) resolve(ctx context.Context, sel selection) (*models.Ingredient, error) {
	var (
		ing *models.Ingredient
		err error
	)
	if sel.id != "" {
		id, parseErr := uuid.Parse(sel.id)
		if parseErr != nil {
			return nil, nil
		}
		ing, err = s.repo.FindByID(ctx, id)
	} else {
		ing, err = s.repo.FindByName(ctx, sel.name)
	}
	if err != nil {
		if dbpkg.IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return ing, nil
}
