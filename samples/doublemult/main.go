package main

import (
	"fmt"
	"log"

	"github.com/sarchlab/akita/v4/monitoring"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/snapsim/api"
	"github.com/sarchlab/snapsim/doublemult"
	"github.com/sarchlab/snapsim/hostmem"
	"github.com/sarchlab/snapsim/registry"
	"github.com/sarchlab/snapsim/snap"
	"github.com/tebeka/atexit"
)

func doubleMult(driver api.Driver, memory *hostmem.Memory) {
	length := 9
	src := make([]float64, length)
	for i := 0; i < length; i++ {
		src[i] = float64(i + 1)
	}

	in, err := memory.AllocFloat64s(length, snap.AddrFlagSrc)
	if err != nil {
		log.Fatal(err)
	}

	out, err := memory.AllocFloat64s(length/doublemult.GroupSize,
		snap.AddrFlagDst|snap.AddrFlagEnd)
	if err != nil {
		log.Fatal(err)
	}

	if err := memory.WriteFloat64s(in.Addr, src); err != nil {
		log.Fatal(err)
	}

	job, err := driver.ExecuteJob(snap.NewJobDescriptor(in, out))
	if err != nil {
		log.Fatal(err)
	}

	dst, err := memory.ReadFloat64s(out.Addr, int(out.Size))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(src)
	fmt.Println(dst)
	fmt.Println(job.Retc.Name())
}

func main() {
	if err := registry.Initialize(doublemult.Registrar()); err != nil {
		log.Fatal(err)
	}
	atexit.Register(registry.Teardown)

	monitor := monitoring.NewMonitor()

	engine := sim.NewSerialEngine()
	monitor.RegisterEngine(engine)

	memory := hostmem.New(1 << 20)

	driver := api.MakeDriverBuilder().
		WithEngine(engine).
		WithFreq(1 * sim.GHz).
		WithMemory(memory).
		Build("Driver")
	monitor.RegisterComponent(driver)

	monitor.StartServer()

	if err := driver.Attach(snap.DoubleMultActionType); err != nil {
		log.Fatal(err)
	}

	doubleMult(driver, memory)

	atexit.Exit(0)
}
