package cmd

import (
	"flag"

	"github.com/etnz/equity/docs"
	"github.com/posener/complete/v2"
	"github.com/posener/complete/v2/predict"
)

// flagPredictors are the predictors of flags that take a known kind of value.
var flagPredictors = map[string]complete.Predictor{
	"scenario": predict.Files("*.yaml"),
	"o":        predict.Files("*.xlsx"),
}

// Completion describes the subcommands and their flags for shell completion.
func Completion() *complete.Command {
	topics, _ := docs.GetAllTopics()
	args := map[string]complete.Predictor{
		"topic": predict.Set(append(topics, docs.Readme)),
	}

	c := &complete.Command{
		Sub:   make(map[string]*complete.Command),
		Flags: map[string]complete.Predictor{"scenario": flagPredictors["scenario"]},
	}
	for _, e := range commands {
		fs := flag.NewFlagSet(e.cmd.Name(), flag.ContinueOnError)
		e.cmd.SetFlags(fs)
		sub := &complete.Command{
			Flags: make(map[string]complete.Predictor),
			Args:  args[e.cmd.Name()],
		}
		fs.VisitAll(func(f *flag.Flag) {
			sub.Flags[f.Name] = predictFlag(f)
		})
		c.Sub[e.cmd.Name()] = sub
	}
	return c
}

func predictFlag(f *flag.Flag) complete.Predictor {
	if p, ok := flagPredictors[f.Name]; ok {
		return p
	}
	if b, ok := f.Value.(interface{ IsBoolFlag() bool }); ok && b.IsBoolFlag() {
		return predict.Nothing
	}
	return predict.Something
}
