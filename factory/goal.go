/*
Package factory provides JSON to Go goal conversion.

PURPOSE:
  Converts JSON goal definitions into ledger.Goal values and the growth
  model that drives their accrual. Definitions come from the HTTP API and
  from seed files; both go through the same validation.

JSON SCHEMA:
  {
    "id": "house",
    "name": "House deposit",
    "type": "investment",
    "targetAmount": 50000,
    "duration": 36,
    "annualReturnPercentage": 7.5,
    "createdAt": "2024-01-01T00:00:00Z",
    "lastReturnCalculationDate": "2024-03-01"
  }

  id, createdAt and lastReturnCalculationDate are optional. Saving goals
  must not carry a return percentage. Keys match the stored Goal record.

KEY FEATURES:
  - Struct-tag validation with go-playground/validator
  - decimal-backed amounts validated through a custom type func
  - Returns a nil GrowthModel for goals that never accrue

USAGE:
  f := NewGoalFactory()
  goal, model, err := f.ParseGoal(jsonString)

SEE ALSO:
  - ledger/types.go: Goal type definition
  - ledger/accrual.go: GrowthModel and SimpleDailyRate
*/
package factory

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/warp/pocket-ledger/generic"
	"github.com/warp/pocket-ledger/ledger"
)

// =============================================================================
// JSON SCHEMA TYPES
// =============================================================================

// GoalJSON is the JSON representation of a goal definition.
type GoalJSON struct {
	ID                        string          `json:"id,omitempty"`
	Name                      string          `json:"name" validate:"required,max=120"`
	Type                      string          `json:"type" validate:"required,goal_type"`
	TargetAmount              generic.Amount  `json:"targetAmount" validate:"gte=0"`
	DurationMonths            int             `json:"duration" validate:"gte=0,lte=1200"`
	AnnualReturnPercentage    generic.Percent `json:"annualReturnPercentage" validate:"gte=0,lte=100"`
	CreatedAt                 *time.Time      `json:"createdAt,omitempty"`
	LastReturnCalculationDate string          `json:"lastReturnCalculationDate,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// =============================================================================
// GOAL FACTORY
// =============================================================================

type GoalFactory struct {
	validate *validator.Validate
}

func NewGoalFactory() *GoalFactory {
	return &GoalFactory{validate: NewValidator()}
}

// NewValidator returns a validator that reports fields by their JSON name,
// understands decimal-backed amounts and knows the ledger enum tags
// (goal_type, pocket_type, transaction_type).
func NewValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(jsonFieldName)
	v.RegisterCustomTypeFunc(decimalValue, generic.Amount{}, generic.Percent{})
	_ = v.RegisterValidation("goal_type", validateGoalType)
	_ = v.RegisterValidation("pocket_type", validatePocketType)
	_ = v.RegisterValidation("transaction_type", validateTransactionType)
	return v
}

// ParseGoal parses a JSON goal definition.
func (f *GoalFactory) ParseGoal(jsonStr string) (ledger.Goal, ledger.GrowthModel, error) {
	var gj GoalJSON
	if err := json.Unmarshal([]byte(jsonStr), &gj); err != nil {
		return ledger.Goal{}, nil, fmt.Errorf("%w: %v", generic.ErrInvalidGoal, err)
	}
	return f.FromJSON(gj)
}

// ParseGoals parses a JSON array of goal definitions, stopping at the first
// invalid one.
func (f *GoalFactory) ParseGoals(jsonStr string) ([]ledger.Goal, error) {
	var defs []GoalJSON
	if err := json.Unmarshal([]byte(jsonStr), &defs); err != nil {
		return nil, fmt.Errorf("%w: %v", generic.ErrInvalidGoal, err)
	}
	goals := make([]ledger.Goal, 0, len(defs))
	for i, gj := range defs {
		g, _, err := f.FromJSON(gj)
		if err != nil {
			return nil, fmt.Errorf("goal %d: %w", i, err)
		}
		goals = append(goals, g)
	}
	return goals, nil
}

// FromJSON validates a definition and builds the goal and its growth model.
func (f *GoalFactory) FromJSON(gj GoalJSON) (ledger.Goal, ledger.GrowthModel, error) {
	if err := f.validate.Struct(gj); err != nil {
		return ledger.Goal{}, nil, fmt.Errorf("%w: %s", generic.ErrInvalidGoal, Describe(err))
	}

	kind := ledger.GoalKind(gj.Type)
	if kind == ledger.GoalSaving && !gj.AnnualReturnPercentage.Value.IsZero() {
		return ledger.Goal{}, nil, fmt.Errorf("%w: saving goals have no annualReturnPercentage", generic.ErrInvalidGoal)
	}

	goal := ledger.Goal{
		ID:                     ledger.AccountID(gj.ID),
		Name:                   gj.Name,
		TargetAmount:           gj.TargetAmount,
		DurationMonths:         gj.DurationMonths,
		Kind:                   kind,
		AnnualReturnPercentage: gj.AnnualReturnPercentage,
	}
	if gj.CreatedAt != nil {
		goal.CreatedAt = gj.CreatedAt.UTC()
	}
	if gj.LastReturnCalculationDate != "" {
		day, err := generic.ParseDay(gj.LastReturnCalculationDate)
		if err != nil {
			return ledger.Goal{}, nil, fmt.Errorf("%w: %v", generic.ErrInvalidGoal, err)
		}
		goal.LastReturnCalculationDate = day
	}

	return goal, ledger.GrowthModelFor(goal), nil
}

// ToJSON converts a goal back to its definition form.
func (f *GoalFactory) ToJSON(goal ledger.Goal) GoalJSON {
	gj := GoalJSON{
		ID:                        string(goal.ID),
		Name:                      goal.Name,
		Type:                      string(goal.Kind),
		TargetAmount:              goal.TargetAmount,
		DurationMonths:            goal.DurationMonths,
		AnnualReturnPercentage:    goal.AnnualReturnPercentage,
		LastReturnCalculationDate: goal.LastReturnCalculationDate.String(),
	}
	if !goal.CreatedAt.IsZero() {
		created := goal.CreatedAt
		gj.CreatedAt = &created
	}
	return gj
}

// =============================================================================
// PRESETS
// =============================================================================

// SavingGoalJSON returns a saving goal definition.
func SavingGoalJSON(id, name string, target float64, months int) string {
	return fmt.Sprintf(`{"id":%q,"name":%q,"type":"saving","targetAmount":%v,"duration":%d}`,
		id, name, target, months)
}

// InvestmentGoalJSON returns an investment goal definition growing at
// annualPercent per year.
func InvestmentGoalJSON(id, name string, target float64, months int, annualPercent float64) string {
	return fmt.Sprintf(`{"id":%q,"name":%q,"type":"investment","targetAmount":%v,"duration":%d,"annualReturnPercentage":%v}`,
		id, name, target, months, annualPercent)
}

// =============================================================================
// VALIDATION HELPERS
// =============================================================================

// decimalValue exposes decimal-backed fields to numeric tags like gte.
func decimalValue(field reflect.Value) any {
	switch v := field.Interface().(type) {
	case generic.Amount:
		f, _ := v.Value.Float64()
		return f
	case generic.Percent:
		f, _ := v.Value.Float64()
		return f
	}
	return nil
}

func jsonFieldName(fld reflect.StructField) string {
	name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
	if name == "-" {
		return ""
	}
	return name
}

func validateGoalType(fl validator.FieldLevel) bool {
	switch ledger.GoalKind(fl.Field().String()) {
	case ledger.GoalSaving, ledger.GoalInvestment:
		return true
	}
	return false
}

func validatePocketType(fl validator.FieldLevel) bool {
	return ledger.PocketKind(fl.Field().String()).IsValid()
}

func validateTransactionType(fl validator.FieldLevel) bool {
	return ledger.TransactionKind(fl.Field().String()).IsValid()
}

// Describe flattens validator errors into one readable line.
func Describe(err error) string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err.Error()
	}
	parts := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		if fe.Param() != "" {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s=%s", fe.Field(), fe.Tag(), fe.Param()))
		} else {
			parts = append(parts, fmt.Sprintf("%s must satisfy %s", fe.Field(), fe.Tag()))
		}
	}
	return strings.Join(parts, "; ")
}
