package cmd

import (
	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"rehearse/core"
	"rehearse/core/config"

	// Provider modules self-register for the "import" command.
	_ "rehearse/modules/extra"
)

var (
	cfgPath string
	output  string
	prompt  string
	debug   bool
)

// rootCmd represents the base command; rehearse has no subcommands.
var rootCmd = &cobra.Command{
	Use:   "rehearse [flags] FILE...",
	Short: "Replay demo scripts as if typed live",
	Long: `Replays line-oriented demo scripts, echoing each command behind a
prompt before running it. Blank lines and "pause" hand control to the
operator until a blank line resumes playback; "." includes another script.
Use "-" to read a script from standard input.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cmd.SilenceUsage = true

		cfg, err := config.Load(afero.NewOsFs(), cfgPath)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("prompt") && cfg.Prompt != "" {
			prompt = cfg.Prompt
		}
		if output == "" {
			output = cfg.Output
		}

		sc, err := core.NewScript(core.Options{
			Files:  args,
			Output: output,
			Prompt: prompt,
			Debug:  debug || cfg.Debug,
		})
		if err != nil {
			return err
		}

		for _, name := range cfg.Modules {
			mod, ok := core.LookupModule(name)
			if !ok {
				sc.Close()
				return &core.ImportError{Module: name}
			}
			mod.RegisterAll(sc.Registry)
		}

		return sc.Run()
	},
}

// Execute runs the root command. This is called by main.main().
func Execute() {
	cobra.CheckErr(rootCmd.Execute())
}

func init() {
	rootCmd.Flags().StringVarP(&output, "output", "o", "", "output commands to a new demo file")
	rootCmd.Flags().StringVarP(&prompt, "prompt", "p", core.DefaultPrompt, `prompt template (\! next history index, \w working directory)`)
	rootCmd.Flags().BoolVarP(&debug, "debug", "d", false, "enable debugging output")
	rootCmd.Flags().StringVar(&cfgPath, "config", "", "path to options file")
}
