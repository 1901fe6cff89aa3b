package forms

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/goliatone/go-formwizard/pkg/validation"
)

// Eligibility ceilings. Every limit is exclusive: a value must be strictly
// below it.
const (
	EWSIncomeLimit             = 800000
	EWSAgriculturalLandAcres   = 5
	EWSFlatAreaSqFt            = 1000
	EWSMunicipalPlotSqYd       = 100
	EWSOtherPlotSqYd           = 200
	NonCreamyLayerIncomeLimit  = 800000
	VoterMinimumAge            = 18
	UdyamInvestmentLimitRupees = 500000000
	UdyamTurnoverLimitRupees   = 2500000000
)

// MunicipalPlot is the plotLocation choice with the lower plot ceiling.
const MunicipalPlot = "Notified Municipality"

// Checks returns a registry with every check the bundled forms reference.
func Checks() *validation.Registry {
	r := validation.NewRegistry()
	r.MustRegister("ewsIncome", EWSIncome)
	r.MustRegister("ewsAssets", EWSAssets)
	r.MustRegister("nclIncome", NonCreamyLayerIncome)
	r.MustRegister("voterAge", VoterAge)
	r.MustRegister("udyamLimits", UdyamLimits)
	return r
}

// EWSIncome requires totalAnnualIncome below EWSIncomeLimit.
func EWSIncome(values map[string]any) error {
	amount, ok := amountOf(values, "totalAnnualIncome")
	if ok && amount >= EWSIncomeLimit {
		return errors.New("Total annual family income must be below ₹8,00,000 for EWS eligibility")
	}
	return nil
}

// EWSAssets applies the EWS asset ceilings: agricultural land, residential
// flat area, and residential plot area, whose limit depends on whether the
// plot lies within a notified municipality.
func EWSAssets(values map[string]any) error {
	if flag(values, "ownsAgriculturalLand") {
		if acres, ok := decimalOf(values, "agriculturalLandAcres"); ok && acres >= EWSAgriculturalLandAcres {
			return fmt.Errorf("Agricultural land must be below %d acres for EWS eligibility", EWSAgriculturalLandAcres)
		}
	}
	if flag(values, "ownsResidentialFlat") {
		if area, ok := amountOf(values, "flatAreaSqFt"); ok && area >= EWSFlatAreaSqFt {
			return fmt.Errorf("Residential flat must be below %d sq ft for EWS eligibility", EWSFlatAreaSqFt)
		}
	}
	if flag(values, "ownsResidentialPlot") {
		limit, where := int64(EWSOtherPlotSqYd), "outside notified municipalities"
		if text(values, "plotLocation") == MunicipalPlot {
			limit, where = EWSMunicipalPlotSqYd, "in notified municipalities"
		}
		if area, ok := amountOf(values, "plotAreaSqYd"); ok && area >= limit {
			return fmt.Errorf("Residential plots %s must be below %d sq yd for EWS eligibility", where, limit)
		}
	}
	return nil
}

// NonCreamyLayerIncome requires annualFamilyIncome below the creamy layer
// ceiling.
func NonCreamyLayerIncome(values map[string]any) error {
	amount, ok := amountOf(values, "annualFamilyIncome")
	if ok && amount >= NonCreamyLayerIncomeLimit {
		return errors.New("Annual family income must be below ₹8,00,000 for non-creamy layer status")
	}
	return nil
}

// VoterAge requires the derived applicantAge to be at least VoterMinimumAge.
func VoterAge(values map[string]any) error {
	age, ok := values["applicantAge"].(int)
	if ok && age < VoterMinimumAge {
		return fmt.Errorf("You must be at least %d years old to register as a voter", VoterMinimumAge)
	}
	return nil
}

// UdyamLimits rejects enterprises above the medium enterprise ceilings.
func UdyamLimits(values map[string]any) error {
	if amount, ok := amountOf(values, "investment"); ok && amount >= UdyamInvestmentLimitRupees {
		return errors.New("Investment must be below ₹50 crore to register as an MSME")
	}
	if amount, ok := amountOf(values, "turnover"); ok && amount >= UdyamTurnoverLimitRupees {
		return errors.New("Turnover must be below ₹250 crore to register as an MSME")
	}
	return nil
}

// amountOf reads a whole number field. Empty or malformed values report
// false; presence and format rules handle them.
func amountOf(values map[string]any, key string) (int64, bool) {
	raw := text(values, key)
	if raw == "" {
		return 0, false
	}
	n, err := validation.ParseAmount(raw)
	if err != nil {
		return 0, false
	}
	return n, true
}

func decimalOf(values map[string]any, key string) (float64, bool) {
	raw := strings.ReplaceAll(text(values, key), ",", "")
	if raw == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func text(values map[string]any, key string) string {
	s, _ := values[key].(string)
	return strings.TrimSpace(s)
}

func flag(values map[string]any, key string) bool {
	b, _ := values[key].(bool)
	return b
}
