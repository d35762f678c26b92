package api

import (
    "fmt"

    "walloc/internal/model"
    "walloc/internal/plan"
)

func validateOptimizeRequest(req *model.OptimizeRequest) error {
    if req.RateMode != "" && req.RateMode != plan.RateModeFlat && req.RateMode != plan.RateModeCarrier {
        return fmt.Errorf("invalid rateMode: %s", req.RateMode)
    }
    for _, w := range req.Weeks {
        if w < 1 {
            return fmt.Errorf("weeks must be >= 1")
        }
    }
    if req.Epsilon < 0 {
        return fmt.Errorf("epsilon must be >= 0")
    }
    if req.Tolerance < 0 {
        return fmt.Errorf("tolerance must be >= 0")
    }
    if req.TimeBudgetMs < 0 {
        return fmt.Errorf("timeBudgetMs must be >= 0")
    }
    if req.Carrier != "" && req.RateMode != plan.RateModeCarrier {
        return fmt.Errorf("carrier requires rateMode=carrier")
    }
    if req.Vehicle != "" && req.RateMode != plan.RateModeCarrier {
        return fmt.Errorf("vehicle requires rateMode=carrier")
    }
    return nil
}

func validateBaselineRequest(req *model.BaselineRequest) error {
    if req.Mode != "" && req.Mode != "manual" && req.Mode != "auto" {
        return fmt.Errorf("invalid mode: %s", req.Mode)
    }
    for _, w := range req.Weeks {
        if w < 1 {
            return fmt.Errorf("weeks must be >= 1")
        }
    }
    return nil
}
