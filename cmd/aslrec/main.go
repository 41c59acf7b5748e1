package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/LRParser/sign-language-hmm/asldata"
	"github.com/LRParser/sign-language-hmm/hmm"
	"github.com/LRParser/sign-language-hmm/recognizer"
	"github.com/LRParser/sign-language-hmm/selector"
)

var log = logrus.New()

func main() {
	cmd := rootCmd()
	if err := cmd.Execute(); err != nil {
		log.Error(err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "aslrec",
		Short: "Train per-word Gaussian HMMs and recognize ASL test sequences",
		Long: `aslrec loads a hand-tracking database and word-segment lists, trains one
Gaussian HMM per vocabulary word with the chosen model-selection strategy,
scores every test item against every model and reports the transcription
and word error rate.`,
		RunE: run,
	}

	flags := cmd.Flags()
	flags.String("hands", "data/hands_condensed.csv", "hand-tracking CSV")
	flags.String("train", "data/train_words.csv", "training word-list CSV")
	flags.String("test", "data/test_words.csv", "test word-list CSV")
	flags.String("features", "ground", "feature set: ground|norm|polar|delta")
	flags.String("selector", "constant", "strategy: constant|bic|dic|cv")
	flags.Int("min-states", 2, "smallest candidate state count")
	flags.Int("max-states", 10, "largest candidate state count")
	flags.Int("n-constant", 3, "state count for the constant strategy")
	flags.Int64("seed", 14, "training rng seed")
	flags.Int("max-iter", 1000, "max EM iterations per fit")
	flags.BoolP("verbose", "v", false, "log per-word selection details")

	viper.SetEnvPrefix("aslrec")
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	viper.AutomaticEnv()
	if err := viper.BindPFlags(flags); err != nil {
		panic(err)
	}
	return cmd
}

func run(cmd *cobra.Command, args []string) error {
	if viper.GetBool("verbose") {
		log.SetLevel(logrus.DebugLevel)
		logrus.SetLevel(logrus.DebugLevel)
	}

	features := asldata.FeatureSet(viper.GetString("features"))
	if features == nil {
		return fmt.Errorf("unknown feature set %q", viper.GetString("features"))
	}

	log.WithField("path", viper.GetString("hands")).Info("loading hand-tracking database")
	db, err := asldata.LoadDatabase(viper.GetString("hands"))
	if err != nil {
		return err
	}
	db.BuildAll()

	training, err := asldata.BuildTrainingSet(db, viper.GetString("train"), features)
	if err != nil {
		return err
	}
	testSet, err := asldata.BuildTestSet(db, viper.GetString("test"), features)
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"words": len(training.Words()),
		"items": testSet.Num(),
	}).Info("data loaded")

	models, err := trainModels(training)
	if err != nil {
		return err
	}

	_, guesses := recognizer.Recognize(models, testSet)
	report := recognizer.WER(guesses, testSet)
	log.WithFields(logrus.Fields{
		"total":  report.Total,
		"errors": report.Errors,
	}).Infof("WER %.3f", report.WER)

	for _, s := range recognizer.Sentences(guesses, testSet) {
		fmt.Printf("video %d (edit distance %d)\n  recognized: %s\n  actual:     %s\n",
			s.Video, s.Distance, strings.Join(s.Guessed, " "), strings.Join(s.Actual, " "))
	}
	return nil
}

// trainModels runs the configured selection strategy for every word in the
// vocabulary. Words whose every candidate size fails to fit are left out of
// the model set; recognition proceeds over the rest.
func trainModels(training *asldata.TrainingSet) (map[string]*hmm.Model, error) {
	name := viper.GetString("selector")
	models := make(map[string]*hmm.Model)
	for _, word := range training.Words() {
		base := selector.NewBase(training, word)
		base.MinComponents = viper.GetInt("min-states")
		base.MaxComponents = viper.GetInt("max-states")
		base.NConstant = viper.GetInt("n-constant")
		base.Seed = viper.GetInt64("seed")
		base.MaxIter = viper.GetInt("max-iter")
		base.Logger = log

		sel, err := selector.New(name, base)
		if err != nil {
			return nil, err
		}
		model, err := sel.Select()
		if err != nil {
			log.WithField("word", word).Warnf("training failed: %v", err)
			continue
		}
		log.WithField("word", word).
			Debugf("trained with %d states", model.NComponents)
		models[word] = model
	}
	if len(models) == 0 {
		return nil, fmt.Errorf("no word produced a usable model")
	}
	return models, nil
}
