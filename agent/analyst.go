package agent

import (
	"context"
	"fmt"

	"github.com/percy-xu/xquant"
	"github.com/percy-xu/xquant/date"
	"github.com/percy-xu/xquant/renderer"
	"google.golang.org/genai"
)

const model = "gemini-2.5-pro"

// newFacilitator creates the expert in charge of the conversation.
func newFacilitator(experts ...*Expert) *Expert {
	return &Expert{
		Name:      "Facilitator",
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(experts)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			As a facilitator you are in charge of the conversation and solving the user's request.

			Learn about the expert's skills from the Tools and ask them questions.
			They are at your service and 100% dedicated to you, they keep context of your previous questions.

			The user just ran a back-test of a trading strategy on Chinese A-shares.
			He is here primarily to understand how his strategy performed: returns,
			drawdowns, risk figures, and what the portfolio held over time.

			Devise a plan of questions to ask each expert and come up with the best
			response to the user's request.
		`}}},
		},
		Library: NewLibrary(experts),
	}
}

// NewMarketExpert creates an expert grounding answers in Google Search,
// useful for news about listed companies and indices.
func NewMarketExpert() *Expert {
	return &Expert{
		Name: "Market",
		Description: `This is an expert of the Chinese stock markets,
		very well aware of listed companies, indices and funds,
		and of the latest market news.
		Ask the Market expert whenever you need recent or grounding information.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{GoogleSearch: &genai.GoogleSearch{}},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are an expert of the Chinese stock markets. You can search and find
			anything related to listed companies, indices, funds and regulations.
			You leverage Google Search to ground your assertions in a solid truth,
			and you know how to relate the latest news to the user's request.
				`}}},
		},
	}
}

// NewAnalyst creates the expert in charge of the user's back-test. Its tools
// read the run's results directly.
func NewAnalyst(strategy string, res *xquant.Result, m *xquant.Market) *Expert {
	lib := []Function{reportFunc(strategy, res, m), portfolioAtFunc(res)}

	return &Expert{
		Name: "Analyst",
		Description: `This is the Analyst. He is in charge of the user's back-test results.
		He can compute the performance report of the run and look up what the
		portfolio held on any date.`,
		ModelName: model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
				You are a quantitative analyst in charge of the user's back-test results.
				You know how to use the Tools to extract the relevant figures about the run.
				You are part of a team of experts, yours is everything about this back-test.
				They might ask you questions with approximative language, figure out what they meant.

				Use the available tools to get information about the run
				  - the performance report
				  - the portfolio held on a given date
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Func implements a simple Function.
type Func struct {
	// Declare this function
	Decl *genai.FunctionDeclaration
	// Call this function
	Func func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse
}

func (f *Func) Declaration() *genai.FunctionDeclaration { return f.Decl }
func (f *Func) Call(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
	return f.Func(ctx, id, args)
}

func errResponse(id, name string, err error) *genai.FunctionResponse {
	return &genai.FunctionResponse{
		ID:   id,
		Name: name,
		Response: map[string]any{
			"error": err.Error(),
		},
	}
}

func reportFunc(strategy string, res *xquant.Result, m *xquant.Market) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "Report",
			Description: `Report computes the full performance report of the back-test run.`,
			Parameters: &genai.Schema{
				Type:       genai.TypeObject,
				Properties: map[string]*genai.Schema{},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "A markdown-formatted table of all the performance figures of the run.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			rep, err := xquant.NewReport(res, m)
			if err != nil {
				return errResponse(id, "Report", err)
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "Report",
				Response: map[string]any{
					"output": renderer.RenderReport(renderer.NewReport(strategy, rep)),
				},
			}
		},
	}
}

func portfolioAtFunc(res *xquant.Result) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name: "PortfolioAt",
			Description: `PortfolioAt returns the portfolio held on a given date:
			cash, long and short positions.`,
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"date": {
						Type:        genai.TypeString,
						Description: "The date to look up, in YYYY-MM-DD format.",
					},
				},
				Required: []string{"date"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The portfolio held on that date, as json.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			sdate, ok := args["date"].(string)
			if !ok {
				return errResponse(id, "PortfolioAt", fmt.Errorf("argument 'date' is not a string as expected but %T", args["date"]))
			}
			on, err := date.Parse(sdate)
			if err != nil {
				return errResponse(id, "PortfolioAt", fmt.Errorf("argument 'date' must be a valid date, got %q: %w", sdate, err))
			}
			p, err := res.Holdings.PortfolioAt(on)
			if err != nil {
				return errResponse(id, "PortfolioAt", err)
			}
			b, err := p.MarshalJSON()
			if err != nil {
				return errResponse(id, "PortfolioAt", err)
			}
			return &genai.FunctionResponse{
				ID:   id,
				Name: "PortfolioAt",
				Response: map[string]any{
					"output": string(b),
				},
			}
		},
	}
}
