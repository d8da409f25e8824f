package api

import (
	"errors"

	gomock "github.com/golang/mock/gomock"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/sarchlab/akita/v4/sim"
	"github.com/sarchlab/snapsim/registry"
	"github.com/sarchlab/snapsim/snap"
)

type jobLog struct {
	jobs []*Job
}

func (l *jobLog) JobCompleted(job *Job) {
	l.jobs = append(l.jobs, job)
}

var _ = Describe("Driver", func() {
	var (
		mockCtrl   *gomock.Controller
		mockAction *MockAction
		mockMemory *MockMemory
		engine     sim.Engine
		reg        *registry.Registry
		log        *jobLog
		driver     *driverImpl
	)

	BeforeEach(func() {
		mockCtrl = gomock.NewController(GinkgoT())
		mockAction = NewMockAction(mockCtrl)
		mockMemory = NewMockMemory(mockCtrl)
		engine = sim.NewSerialEngine()
		log = &jobLog{}

		reg = registry.New()
		reg.Register(registry.Entry{
			Key: registry.Key{
				VendorID:   snap.VendorIDAny,
				DeviceID:   snap.DeviceIDAny,
				ActionType: snap.DoubleMultActionType,
			},
			Name:   "mock",
			Action: mockAction,
		})

		driver = MakeDriverBuilder().
			WithEngine(engine).
			WithFreq(1 * sim.GHz).
			WithMemory(mockMemory).
			WithRegistry(reg).
			WithObserver(log).
			Build("Driver").(*driverImpl)
	})

	AfterEach(func() {
		mockCtrl.Finish()
	})

	It("should refuse jobs before an action is attached", func() {
		_, err := driver.SubmitJob(&snap.JobDescriptor{})

		Expect(err).To(MatchError(ErrNotAttached))
	})

	It("should report an unknown action type", func() {
		err := driver.Attach(0x10140000)

		Expect(errors.Is(err, snap.ErrNotFound)).To(BeTrue())
		Expect(driver.action).To(BeNil())
	})

	It("should attach to a registered action", func() {
		Expect(driver.Attach(snap.DoubleMultActionType)).To(Succeed())

		Expect(driver.action.Name).To(Equal("mock"))
		Expect(driver.State()).To(Equal(snap.ActionIdle))
	})

	It("should allow only one job in flight", func() {
		Expect(driver.Attach(snap.DoubleMultActionType)).To(Succeed())

		_, err := driver.SubmitJob(&snap.JobDescriptor{})
		Expect(err).NotTo(HaveOccurred())

		_, err = driver.SubmitJob(&snap.JobDescriptor{})
		Expect(err).To(MatchError(ErrBusy))
		Expect(driver.Attach(snap.DoubleMultActionType)).To(MatchError(ErrBusy))
	})

	It("should walk a job through load, execute and complete", func() {
		Expect(driver.Attach(snap.DoubleMultActionType)).To(Succeed())

		desc := snap.NewJobDescriptor(
			snap.Addr{Addr: 0x1000, Size: 3},
			snap.Addr{Addr: 0x2000, Size: 1},
		)
		job, err := driver.SubmitJob(desc)
		Expect(err).NotTo(HaveOccurred())
		Expect(job.ID).NotTo(BeEmpty())

		Expect(driver.Tick()).To(BeTrue())
		Expect(driver.State()).To(Equal(snap.ActionRunning))

		mockAction.EXPECT().
			Main(mockMemory, gomock.Any()).
			DoAndReturn(func(_ snap.Memory, regs []byte) error {
				Expect(regs).To(HaveLen(snap.DescriptorSize))

				d, err := snap.DecodeDescriptor(regs)
				Expect(err).NotTo(HaveOccurred())
				Expect(d.Job.In.Addr).To(Equal(uint64(0x1000)))

				return snap.SetRetc(regs, snap.RetcSuccess)
			})

		Expect(driver.Tick()).To(BeTrue())
		Expect(driver.State()).To(Equal(snap.ActionDone))
		Expect(job.Done()).To(BeFalse())

		Expect(driver.Tick()).To(BeTrue())
		Expect(driver.State()).To(Equal(snap.ActionIdle))
		Expect(job.Done()).To(BeTrue())
		Expect(job.Retc).To(Equal(snap.RetcSuccess))
		Expect(desc.Retc()).To(Equal(snap.RetcSuccess))
		Expect(log.jobs).To(ConsistOf(job))

		Expect(driver.Tick()).To(BeFalse())
	})

	It("should report the action error", func() {
		Expect(driver.Attach(snap.DoubleMultActionType)).To(Succeed())

		mockAction.EXPECT().
			Main(mockMemory, gomock.Any()).
			DoAndReturn(func(_ snap.Memory, regs []byte) error {
				_ = snap.SetRetc(regs, snap.RetcFailure)
				return &snap.OutOfBoundsError{Address: 0x1000, Len: 8}
			})

		desc := snap.NewJobDescriptor(snap.Addr{}, snap.Addr{})
		job, err := driver.ExecuteJob(desc)

		var oob *snap.OutOfBoundsError
		Expect(errors.As(err, &oob)).To(BeTrue())
		Expect(job.Retc).To(Equal(snap.RetcFailure))
		Expect(job.EndTime).To(BeNumerically(">", job.StartTime))
	})

	It("should run a job to completion in simulated time", func() {
		Expect(driver.Attach(snap.DoubleMultActionType)).To(Succeed())

		mockAction.EXPECT().
			Main(mockMemory, gomock.Any()).
			DoAndReturn(func(_ snap.Memory, regs []byte) error {
				return snap.SetRetc(regs, snap.RetcSuccess)
			})

		job, err := driver.ExecuteJob(snap.NewJobDescriptor(snap.Addr{}, snap.Addr{}))

		Expect(err).NotTo(HaveOccurred())
		Expect(job.Done()).To(BeTrue())
		Expect(job.Retc).To(Equal(snap.RetcSuccess))
		Expect(engine.CurrentTime()).To(BeNumerically(">", 0))
	})

	It("should forward register accesses", func() {
		Expect(driver.MMIOWrite32(0x100, 1)).To(MatchError(ErrNotAttached))

		Expect(driver.Attach(snap.DoubleMultActionType)).To(Succeed())

		var data uint32
		mockAction.EXPECT().MMIOWrite32(uint64(0x100), uint32(1)).Return(nil)
		mockAction.EXPECT().MMIORead32(uint64(0x104), &data).Return(nil)

		Expect(driver.MMIOWrite32(0x100, 1)).To(Succeed())
		Expect(driver.MMIORead32(0x104, &data)).To(Succeed())
	})

	It("should fail a job whose action was detached in flight", func() {
		Expect(driver.Attach(snap.DoubleMultActionType)).To(Succeed())

		desc := snap.NewJobDescriptor(snap.Addr{}, snap.Addr{})
		job, err := driver.SubmitJob(desc)
		Expect(err).NotTo(HaveOccurred())

		driver.Detach()

		Expect(func() { Expect(driver.Run()).To(Succeed()) }).NotTo(Panic())
		Expect(job.Done()).To(BeTrue())
		Expect(job.Err).To(MatchError(ErrNotAttached))
		Expect(job.Retc).To(Equal(snap.RetcFailure))
		Expect(driver.State()).To(Equal(snap.ActionIdle))
	})

	It("should detach", func() {
		Expect(driver.Attach(snap.DoubleMultActionType)).To(Succeed())

		driver.Detach()

		_, err := driver.SubmitJob(&snap.JobDescriptor{})
		Expect(err).To(MatchError(ErrNotAttached))
	})
})

var _ = Describe("Driver with back to back jobs", func() {
	It("should run a second job after the first one", func() {
		mockCtrl := gomock.NewController(GinkgoT())
		defer mockCtrl.Finish()

		mockAction := NewMockAction(mockCtrl)
		reg := registry.New()
		reg.Register(registry.Entry{
			Key: registry.Key{
				VendorID:   snap.VendorIDAny,
				DeviceID:   snap.DeviceIDAny,
				ActionType: snap.DoubleMultActionType,
			},
			Action: mockAction,
		})

		driver := MakeDriverBuilder().
			WithEngine(sim.NewSerialEngine()).
			WithMemory(NewMockMemory(mockCtrl)).
			WithRegistry(reg).
			Build("Driver")
		Expect(driver.Attach(snap.DoubleMultActionType)).To(Succeed())

		mockAction.EXPECT().
			Main(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ snap.Memory, regs []byte) error {
				return snap.SetRetc(regs, snap.RetcSuccess)
			}).
			Times(2)

		first, err := driver.ExecuteJob(snap.NewJobDescriptor(snap.Addr{}, snap.Addr{}))
		Expect(err).NotTo(HaveOccurred())

		second, err := driver.ExecuteJob(snap.NewJobDescriptor(snap.Addr{}, snap.Addr{}))
		Expect(err).NotTo(HaveOccurred())

		Expect(second.Done()).To(BeTrue())
		Expect(second.ID).NotTo(Equal(first.ID))
		Expect(second.StartTime).To(BeNumerically(">", first.EndTime))
	})
})
