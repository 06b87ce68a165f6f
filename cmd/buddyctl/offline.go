package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/MikeSquared-Agency/buddy/internal/extractor"
	"github.com/MikeSquared-Agency/buddy/internal/knowledge"
	"github.com/MikeSquared-Agency/buddy/internal/policy"
	"github.com/MikeSquared-Agency/buddy/internal/transcript"
	"github.com/MikeSquared-Agency/buddy/internal/traits"
)

func newNormalizeCmd() *cobra.Command {
	var last int
	cmd := &cobra.Command{
		Use:   "normalize [file]",
		Short: "Strip timestamps, senders and system notices from a chat export",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r := cmd.InOrStdin()
			if len(args) == 1 && args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			raw, err := io.ReadAll(r)
			if err != nil {
				return fmt.Errorf("read export: %w", err)
			}
			if out := transcript.LastN(string(raw), last); out != "" {
				printf(cmd, "%s\n", out)
			}
			return nil
		},
	}
	cmd.Flags().IntVarP(&last, "last", "n", 0, "keep only the last N messages (0 = all)")
	return cmd
}

func newMatchCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "match <message>",
		Short: "Show the behavior scenario a message matches",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(cmd)
			if err != nil {
				return err
			}
			rec, ok := lib.Match(strings.Join(args, " "))
			if !ok {
				printf(cmd, "no match\n")
				return nil
			}
			out, err := yaml.Marshal(rec)
			if err != nil {
				return err
			}
			printf(cmd, "%s", out)
			return nil
		},
	}
}

func newScenariosCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "scenarios",
		Short: "List the scenarios in the behavior library",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			lib, err := openLibrary(cmd)
			if err != nil {
				return err
			}
			for _, s := range lib.Scenarios() {
				printf(cmd, "%s\n", s)
			}
			return nil
		},
	}
}

func openLibrary(cmd *cobra.Command) (*knowledge.Library, error) {
	logger := cliLogger(cmd.ErrOrStderr())
	if libraryDir == "" {
		return knowledge.Default(logger)
	}
	entries, err := knowledge.Load(libraryDir, logger)
	if err != nil {
		return nil, err
	}
	return knowledge.NewLibrary(entries), nil
}

func newTraitsCmd() *cobra.Command {
	s := extractor.DefaultSignals()
	p := policy.DefaultPolicy()
	var (
		emotion, need, relationship, risk string
		mode, tone                        string
	)

	cmd := &cobra.Command{
		Use:   "traits",
		Short: "Show the traits a signal and policy pair would teach",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s.PrimaryEmotion = extractor.Emotion(emotion)
			s.UserNeed = extractor.Need(need)
			s.Relationship = extractor.Relationship(relationship)
			s.ConflictRisk = extractor.Risk(risk)
			p.Mode = policy.Mode(mode)
			p.Tone = policy.Tone(tone)

			if err := s.Validate(); err != nil {
				return err
			}
			if err := p.Validate(); err != nil {
				return err
			}

			learned := traits.Infer(s, p)
			if len(learned) == 0 {
				printf(cmd, "no traits\n")
				return nil
			}
			for _, t := range learned {
				printf(cmd, "%s\t%s\n", t, traits.Adaptation(t))
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&emotion, "emotion", string(s.PrimaryEmotion), "primary emotion")
	f.IntVar(&s.Intensity, "intensity", s.Intensity, "emotion intensity 1-10")
	f.StringVar(&need, "need", string(s.UserNeed), "user need")
	f.StringVar(&relationship, "relationship", string(s.Relationship), "relationship")
	f.StringVar(&risk, "risk", string(s.ConflictRisk), "conflict risk")
	f.StringVar(&mode, "mode", string(p.Mode), "policy mode")
	f.StringVar(&tone, "tone", string(p.Tone), "policy tone")
	f.IntVar(&p.HumorLevel, "humor", p.HumorLevel, "humor level 0-3")
	f.BoolVar(&p.GiveActionSteps, "action-steps", p.GiveActionSteps, "policy gives action steps")
	return cmd
}
