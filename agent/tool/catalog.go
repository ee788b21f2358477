package tool

import (
	"github.com/cloudwego/eino/schema"

	contractx "github.com/dermaluz/concierge/agent/contract"
)

const (
	ToolStoreInfo     = "store_info_search"
	ToolProductInfo   = "product_info_search"
	ToolHumanHandoff  = "human_handoff"
	ToolStartSkinQuiz = "start_skin_quiz"
	ToolClassifySkin  = "classify_skin_type"
)

// InfosForMode returns the tool descriptors offered to the model in the
// given conversational mode. The quiz mode swaps the quiz starter for
// the classifier; everything else is shared.
func InfosForMode(mode contractx.Mode) []*schema.ToolInfo {
	infos := []*schema.ToolInfo{
		{
			Name: ToolStoreInfo,
			Desc: "Search general Dermaluz information: shipping, promotions, returns, contact details, ingredients/formulas, and skincare routines per skin type.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Natural language query", Required: true},
			}),
		},
		{
			Name: ToolProductInfo,
			Desc: "Retrieve Dermaluz product details across all categories: product codes, skin type compatibility, sizes, prices, and benefit descriptions.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"query": {Type: schema.String, Desc: "Natural language query", Required: true},
			}),
		},
		{
			Name: ToolHumanHandoff,
			Desc: "Request help from a human assistant when the question cannot be answered. Provide a detailed report of what the user needs.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"client_phone": {Type: schema.String, Desc: "Phone number of the user", Required: true},
				"body":         {Type: schema.String, Desc: "Detailed report of what the user needs", Required: true},
				"recipient":    {Type: schema.String, Desc: "Optional override for the notification recipient"},
			}),
		},
	}

	switch mode {
	case contractx.ModeQuiz:
		infos = append(infos, &schema.ToolInfo{
			Name: ToolClassifySkin,
			Desc: "Classify the user's skin type after the quiz. Accepts exactly one of: Piel seca, Piel normal, Piel grasa.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{
				"tipo_de_piel": {Type: schema.String, Desc: "One of: Piel seca, Piel normal, Piel grasa", Required: true},
			}),
		})
	default:
		infos = append(infos, &schema.ToolInfo{
			Name:        ToolStartSkinQuiz,
			Desc:        "Start the skin test when the user does not know their skin type. Takes no arguments.",
			ParamsOneOf: schema.NewParamsOneOfByParams(map[string]*schema.ParameterInfo{}),
		})
	}

	return infos
}

func allowedInMode(mode contractx.Mode, name string) bool {
	switch name {
	case ToolStoreInfo, ToolProductInfo, ToolHumanHandoff:
		return true
	case ToolStartSkinQuiz:
		return mode == contractx.ModeAssistant
	case ToolClassifySkin:
		return mode == contractx.ModeQuiz
	default:
		return false
	}
}
