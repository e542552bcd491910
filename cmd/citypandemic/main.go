// Command citypandemic drives a standalone realization of the pandemic
// core against a closed population with no external mobility feed, for
// smoke-testing a configuration file and its disease parameters. A real
// deployment wires PandemicModel.HandleEvent/HandleCmd into a host
// traffic simulator's own event loop instead of this driver.
package main

import (
	"flag"
	"log"
	"runtime"
	"sync"
	"time"

	"github.com/segmentio/ksuid"

	"github.com/kentwait/citypandemic"
)

func main() {
	numCPUPtr := flag.Int("threads", runtime.NumCPU(), "number of CPU threads")
	loggerType := flag.String("logger", "", "data logger type override (csv|sqlite); empty uses the config file's own logger_type")
	seedPtr := flag.Int64("seed", time.Now().UTC().UnixNano(), "base random seed; instance i uses seed+i")
	popPtr := flag.Int("population", 1000, "closed population size for the standalone demo run")
	ticksPtr := flag.Int("ticks", 100, "number of Poll ticks to advance before stopping")
	flag.Parse()

	runtime.GOMAXPROCS(*numCPUPtr)

	configPath := flag.Arg(0)
	if configPath == "" {
		log.Fatal("usage: citypandemic [flags] <config.toml>")
	}

	conf, err := citypandemic.LoadConfig(configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *loggerType != "" {
		conf.Logging.LoggerType = *loggerType
	}
	if err := conf.Validate(); err != nil {
		log.Fatal(err)
	}

	firstStart := time.Now()
	for i := 1; i <= conf.NumInstances(); i++ {
		log.Printf("starting instance %03d\n", i)
		start := time.Now()
		runInstance(conf, i, *seedPtr+int64(i), *popPtr, *ticksPtr)
		log.Printf("finished instance %03d in %s\n", i, time.Since(start))
	}
	log.Printf("completed all runs in %s.", time.Since(firstStart))
}

func runInstance(conf *citypandemic.Config, instance int, seed int64, popSize, ticks int) {
	logger, err := conf.NewLogger(instance)
	if err != nil {
		log.Fatal(err)
	}
	if err := logger.Init(); err != nil {
		log.Fatal(err)
	}

	model := citypandemic.NewPandemicModel(
		conf.Bounds(), conf.Simulation.GridSpacing, conf.Simulation.PollInterval,
		seed, conf.DiseaseParams(), conf.ModelParams(),
	)

	feeds := model.EnableLogging(instance)
	var loggers sync.WaitGroup
	loggers.Add(3)
	go func() { defer loggers.Done(); logger.WriteTransitions(feeds.Transitions) }()
	go func() { defer loggers.Done(); logger.WriteTransmissions(feeds.Transmissions) }()
	go func() { defer loggers.Done(); logger.WritePollSamples(feeds.Polls) }()

	population := make([]citypandemic.PersonID, popSize)
	for i := range population {
		population[i] = ksuid.New()
	}

	scheduler := citypandemic.NewHeapScheduler()
	model.Initialize(citypandemic.Time(0), population, scheduler)
	scheduler.Push(citypandemic.Time(0), citypandemic.Cmd{Kind: citypandemic.CmdPoll})

	walker := citypandemic.NewInMemoryWalker()
	mapInfo := citypandemic.NewStaticMapInfo(conf.Bounds())

	polls := 0
	for polls < ticks {
		at, cmd, ok := scheduler.Pop()
		if !ok {
			break
		}
		if cmd.Kind == citypandemic.CmdPoll {
			polls++
		}
		model.HandleCmd(at, cmd, walker, mapInfo, scheduler)
	}

	model.CloseLogFeeds()
	loggers.Wait()

	log.Printf("instance %03d: sane=%d exposed=%d infected=%d recovered=%d dead=%d",
		instance, model.CountSane(), model.CountExposed(), model.CountInfected(),
		model.CountRecovered(), model.CountDead())
}
