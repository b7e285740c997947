package main

import (
	"flag"
	"fmt"
	"log"
	"path/filepath"

	"github.com/MLH-GHW-Games/HummingbirdMLAgents/agent/uniform"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/environment/hummingbird"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/experiment"
	"github.com/MLH-GHW-Games/HummingbirdMLAgents/experiment/trackers"
)

func main() {
	var seed = flag.Uint64("seed", 192382, "random seed")
	var steps = flag.Uint("steps", 50000, "total environment steps to run")
	var scenePath = flag.String("scene", "", "YAML scene description "+
		"(default: built-in scene)")
	var outDir = flag.String("out", ".", "directory for tracker output")
	flag.Parse()

	scene := hummingbird.DefaultScene()
	if *scenePath != "" {
		var err error
		scene, err = hummingbird.LoadScene(*scenePath)
		if err != nil {
			log.Fatalf("could not load scene: %v", err)
		}
	}

	task := hummingbird.NewForage(hummingbird.TrainingEpisodeSteps)
	env, _, err := hummingbird.New(scene, task, 0.99, true, *seed)
	if err != nil {
		log.Fatalf("could not create environment: %v", err)
	}

	policy := uniform.New(env.ActionSpec(), *seed)

	exp := experiment.NewOnline(env, policy, *steps,
		trackers.NewReturn(filepath.Join(*outDir, "returns.bin")),
		trackers.NewEpisodeLength(filepath.Join(*outDir, "lengths.bin")),
		trackers.NewEpisodeStats(filepath.Join(*outDir, "episodes.csv")),
	)
	exp.ShowProgress()
	exp.Run()

	if err := exp.Save(); err != nil {
		log.Fatalf("could not save experiment data: %v", err)
	}

	fmt.Println(env)
	fmt.Printf("nectar obtained over final episode: %.3f\n",
		env.NectarObtained())
}
