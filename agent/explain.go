package agent

import (
	"context"
	"fmt"
	"strings"

	"github.com/etnz/equity"
	"github.com/etnz/equity/docs"
	"github.com/etnz/equity/renderer"
	"google.golang.org/genai"
)

// Model is the Gemini model used by the experts.
const Model = "gemini-2.5-pro"

// Topics is the function returning an eqt documentation topic.
var Topics = &Func{
	Decl: &genai.FunctionDeclaration{
		Name:        "Topic",
		Description: "Topic returns the eqt documentation of a topic, in markdown. Use it to learn how a figure of the report is computed.",
		Parameters: &genai.Schema{
			Type: genai.TypeObject,
			Properties: map[string]*genai.Schema{
				"topic": {
					Type:        genai.TypeString,
					Description: "The topic name, one of: " + strings.Join(must(docs.GetAllTopics()), ", ") + ".",
				},
			},
			Required: []string{"topic"},
		},
		Response: &genai.Schema{
			Type:        genai.TypeString,
			Description: "The markdown documentation of the topic.",
		},
	},
	Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
		topic, ok := args["topic"].(string)
		if !ok {
			return errorResponse(id, "Topic", fmt.Errorf("argument 'topic' is not a string as expected but %T", args["topic"]))
		}
		doc, err := docs.GetTopic(topic)
		if err != nil {
			return errorResponse(id, "Topic", err)
		}
		return outputResponse(id, "Topic", doc)
	},
}

// NewTableFunc returns the function looking up tax tables in p.
func NewTableFunc(p equity.TaxTableProvider) *Func {
	return &Func{
		Decl: &genai.FunctionDeclaration{
			Name:        "TaxTable",
			Description: "TaxTable returns the standard deduction and the progressive brackets of a tax table.",
			Parameters: &genai.Schema{
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"year":          {Type: genai.TypeInteger, Description: "The tax year."},
					"region":        {Type: genai.TypeString, Description: "'federal' or a state name like 'california'."},
					"status":        {Type: genai.TypeString, Description: "The filing status: single, married, married_separately or head_of_household."},
					"capital_gains": {Type: genai.TypeBoolean, Description: "Federal long-term capital gains rates instead of income rates."},
				},
				Required: []string{"year", "region", "status"},
			},
			Response: &genai.Schema{
				Type:        genai.TypeString,
				Description: "The table in markdown.",
			},
		},
		Func: func(ctx context.Context, id string, args map[string]any) *genai.FunctionResponse {
			q, err := parseTableQuery(args)
			if err != nil {
				return errorResponse(id, "TaxTable", err)
			}
			t, err := p.Lookup(ctx, q)
			if err != nil {
				return errorResponse(id, "TaxTable", err)
			}
			return outputResponse(id, "TaxTable", tableMarkdown(t))
		},
	}
}

func parseTableQuery(args map[string]any) (equity.TableQuery, error) {
	var q equity.TableQuery
	// json numbers are decoded as float64.
	year, ok := args["year"].(float64)
	if !ok {
		return q, fmt.Errorf("argument 'year' is not a number as expected but %T", args["year"])
	}
	region, ok := args["region"].(string)
	if !ok {
		return q, fmt.Errorf("argument 'region' is not a string as expected but %T", args["region"])
	}
	s, _ := args["status"].(string)
	status, err := equity.ParseFilingStatus(s)
	if err != nil {
		return q, err
	}
	capitalGains, _ := args["capital_gains"].(bool)
	return equity.TableQuery{Year: int(year), Region: region, Status: status, CapitalGains: capitalGains}, nil
}

func tableMarkdown(t equity.TaxTable) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Standard deduction: %v\n\n", t.Deduction)
	fmt.Fprintln(&b, "| Income above | Marginal rate |")
	fmt.Fprintln(&b, "|---:|---:|")
	for _, bracket := range t.Brackets {
		fmt.Fprintf(&b, "| %v | %v |\n", bracket.IncomeLevel, bracket.MarginalRate)
	}
	return b.String()
}

// NewExplainer creates the expert explaining tax reports. Tax tables are
// looked up in p.
func NewExplainer(p equity.TaxTableProvider) *Expert {
	lib := []Function{Topics, NewTableFunc(p)}
	return &Expert{
		Name:        "Explainer",
		Description: "The Explainer knows how the taxes of equity compensation are computed.",
		ModelName:   Model,
		Config: &genai.GenerateContentConfig{
			Tools: []*genai.Tool{
				{FunctionDeclarations: NewDeclaration(lib)},
			},
			SystemInstruction: &genai.Content{Parts: []*genai.Part{{Text: `
			You are a tax advisor specialized in employee stock options.
			The user gives you a tax report computed by eqt, explain it in plain words.

			Walk through each section of the report: payroll taxes, income taxes, capital gains and
			the alternative minimum tax. Say which exercises or sales caused each amount and what
			the user could have done differently (holding periods, exercise timing).

			Use the Topic tool to learn how eqt computes each figure and the TaxTable tool to quote
			the brackets involved. Never recompute the figures yourself, the report is the truth.
			`}}},
		},
		Library: NewLibrary(lib),
	}
}

// Prompt returns the request asking to explain the reports.
func Prompt(reports ...*equity.TaxReport) string {
	var b strings.Builder
	fmt.Fprintln(&b, "Explain the following tax report.")
	for _, r := range reports {
		fmt.Fprintln(&b)
		fmt.Fprint(&b, renderer.TaxReportMarkdown(r))
	}
	return b.String()
}

// Explain asks the explainer to explain the reports and returns its markdown answer.
func Explain(ctx context.Context, client *genai.Client, e *Expert, reports ...*equity.TaxReport) (string, error) {
	if e.chat == nil {
		if err := e.Start(ctx, client); err != nil {
			return "", err
		}
	}
	content, err := e.Ask(ctx, &genai.Part{Text: Prompt(reports...)})
	if err != nil {
		return "", err
	}
	return Text(content), nil
}

func must[T any](v T, err error) T {
	if err != nil {
		panic(err)
	}
	return v
}
