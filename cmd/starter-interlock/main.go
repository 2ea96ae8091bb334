// Command starter-interlock runs the startup latch control loop: it samples
// the push-button and the three interlock voltages, drives the indicator,
// power-enable relay, and buzzer, and publishes latch transitions to MQTT.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sweeney/starter-interlock/internal/actuator"
	"github.com/sweeney/starter-interlock/internal/diag"
	"github.com/sweeney/starter-interlock/internal/logic"
	"github.com/sweeney/starter-interlock/internal/mqtt"
	"github.com/sweeney/starter-interlock/internal/sensor"
	"github.com/sweeney/starter-interlock/internal/status"
	"github.com/sweeney/starter-interlock/internal/web"
)

func main() {
	poll := flag.Duration("poll", 10*time.Millisecond, "Control tick interval")
	quiet := flag.Duration("quiet", logic.DefaultQuietPeriod, "Post-boot quiet period (button edges ignored)")
	buzzer := flag.Duration("buzzer", logic.DefaultBuzzerDuration, "Buzzer pulse duration on activation")
	heartbeat := flag.Duration("heartbeat", 15*time.Minute, "Heartbeat interval (0 to disable)")
	broker := flag.String("broker", "tcp://192.168.1.200:1883", "MQTT broker address")
	httpAddr := flag.String("http", ":80", "HTTP status address (empty to disable)")

	pinButton := flag.Int("pin-button", sensor.DefaultPinButton, "BCM pin number for the start button")
	pinIndicator := flag.Int("pin-indicator", actuator.DefaultPinIndicator, "BCM pin number for the indicator light")
	pinPower := flag.Int("pin-power", actuator.DefaultPinPowerEnable, "BCM pin number for the power-enable relay")
	pinBuzzer := flag.Int("pin-buzzer", actuator.DefaultPinBuzzer, "BCM pin number for the buzzer")

	iioDevice := flag.String("iio-device", "iio:device0", "IIO device name for the ADC")
	chCharge := flag.Int("ch-charge", sensor.DefaultChannelCharge, "ADC channel for the charge signal")
	chNeutral := flag.Int("ch-neutral", sensor.DefaultChannelNeutral, "ADC channel for the neutral signal")
	chBrake := flag.Int("ch-brake", sensor.DefaultChannelBrake, "ADC channel for the brake signal")
	vref := flag.Float64("vref", sensor.DefaultVRef, "ADC reference voltage")
	adcBits := flag.Int("adc-bits", sensor.DefaultADCBits, "ADC resolution in bits")

	thCharge := flag.Float64("th-charge", sensor.DefaultThresholdVolts, "Charge detection threshold (volts)")
	thNeutral := flag.Float64("th-neutral", sensor.DefaultThresholdVolts, "Neutral detection threshold (volts)")
	thBrake := flag.Float64("th-brake", sensor.DefaultThresholdVolts, "Brake detection threshold (volts)")

	diagDest := flag.String("diag", "stdout", `Diagnostic stream: "stdout", "off", or a serial device path`)
	diagBaud := flag.Int("diag-baud", diag.DefaultBaud, "Baud rate for a serial diagnostic stream")
	diagEvery := flag.Int("diag-every", 100, "Emit the per-tick diagnostic line every Nth tick")

	printState := flag.Bool("print-state", false, "Print current sensor state and exit")

	flag.Parse()

	thresholds := sensor.Thresholds{Charge: *thCharge, Neutral: *thNeutral, Brake: *thBrake}

	err := run(runConfig{
		poll:       *poll,
		quiet:      *quiet,
		buzzer:     *buzzer,
		heartbeat:  *heartbeat,
		broker:     *broker,
		httpAddr:   *httpAddr,
		pinButton:  *pinButton,
		pins:       [3]int{*pinIndicator, *pinPower, *pinBuzzer},
		iioDevice:  *iioDevice,
		channels:   [3]int{*chCharge, *chNeutral, *chBrake},
		vref:       *vref,
		adcBits:    *adcBits,
		thresholds: thresholds,
		diagDest:   *diagDest,
		diagBaud:   *diagBaud,
		diagEvery:  *diagEvery,
		printState: *printState,
	})
	if err != nil {
		log.Fatalf("fatal: %v", err)
	}
}

type runConfig struct {
	poll, quiet, buzzer, heartbeat time.Duration
	broker, httpAddr               string
	pinButton                      int
	pins                           [3]int // indicator, power-enable, buzzer
	iioDevice                      string
	channels                       [3]int // charge, neutral, brake
	vref                           float64
	adcBits                        int
	thresholds                     sensor.Thresholds
	diagDest                       string
	diagBaud                       int
	diagEvery                      int
	printState                     bool
}

func run(cfg runConfig) error {
	reader, err := sensor.NewRealReader(cfg.pinButton, cfg.iioDevice,
		cfg.channels[0], cfg.channels[1], cfg.channels[2], cfg.vref, cfg.adcBits)
	if err != nil {
		return fmt.Errorf("init sensor: %w", err)
	}
	defer reader.Close()

	if cfg.printState {
		sample, err := reader.Read()
		if err != nil {
			return fmt.Errorf("read sensor: %w", err)
		}
		safety := cfg.thresholds.Evaluate(sample)
		fmt.Printf("charge=%.2fV neutral=%.2fV brake=%.2fV button=%v\n",
			sample.ChargeVolts, sample.NeutralVolts, sample.BrakeVolts, sample.ButtonPressed)
		fmt.Printf("charging=%v neutral=%v brake_pressed=%v\n",
			safety.Charging, safety.Neutral, safety.BrakePressed)
		return nil
	}

	driver, err := actuator.NewRealDriver(cfg.pins[0], cfg.pins[1], cfg.pins[2])
	if err != nil {
		return fmt.Errorf("init actuator: %w", err)
	}
	defer driver.Close()

	publisher, err := mqtt.NewRealPublisher(cfg.broker)
	if err != nil {
		return fmt.Errorf("connect mqtt: %w", err)
	}
	defer publisher.Close()

	sink, err := openDiagSink(cfg.diagDest, cfg.diagBaud, cfg.diagEvery)
	if err != nil {
		return fmt.Errorf("open diag: %w", err)
	}
	defer sink.Close()

	// Initialize status tracker (before STARTUP so snapshot is available)
	tracker := status.NewTracker(time.Now(), status.Config{
		PollMs:      cfg.poll.Milliseconds(),
		QuietMs:     cfg.quiet.Milliseconds(),
		BuzzerMs:    cfg.buzzer.Milliseconds(),
		HeartbeatMs: cfg.heartbeat.Milliseconds(),
		Broker:      cfg.broker,
		HTTPPort:    cfg.httpAddr,
		Diag:        cfg.diagDest,
	})
	if net := readNetworkInfo(); net != nil {
		tracker.SetNetwork(net)
	}

	// Publish startup event with full status snapshot
	snap := tracker.Snapshot()
	startupEvent := mqtt.SystemEvent{
		Timestamp:  snap.Now,
		Event:      "STARTUP",
		Retained:   true,
		RawPayload: status.FormatStatusEvent(snap, "STARTUP", ""),
	}
	if err := publisher.PublishSystem(startupEvent); err != nil {
		log.Printf("failed to publish startup event: %v", err)
	} else {
		log.Printf("published startup event")
	}

	// Start HTTP status server
	if cfg.httpAddr != "" {
		srv := web.New(cfg.httpAddr, tracker)
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				log.Printf("http server error: %v", err)
			}
		}()
		defer srv.Shutdown(context.Background())
		log.Printf("http status server listening on %s", cfg.httpAddr)
	}

	log.Printf("started: poll=%v quiet=%v buzzer=%v broker=%s heartbeat=%v",
		cfg.poll, cfg.quiet, cfg.buzzer, cfg.broker, cfg.heartbeat)

	ticker := time.NewTicker(cfg.poll)
	defer ticker.Stop()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	return runLoop(reader, driver, publisher, publisher, sink, tracker,
		cfg.thresholds, cfg.quiet, cfg.buzzer, cfg.heartbeat,
		time.Now, ticker.C, sigCh)
}

func runLoop(reader sensor.Reader, driver actuator.Driver, publisher mqtt.Publisher,
	mqttStatus mqtt.ConnectionStatus, sink diag.Sink, tracker *status.Tracker,
	thresholds sensor.Thresholds, quiet, buzzer, heartbeat time.Duration,
	now func() time.Time, tick <-chan time.Time, sig <-chan os.Signal) error {

	startTime := now()
	controller := logic.NewController(quiet, buzzer, startTime)

	for {
		select {
		case s := <-sig:
			log.Printf("received %v, shutting down", s)
			signalName := "UNKNOWN"
			if s == syscall.SIGINT {
				signalName = "SIGINT"
			} else if s == syscall.SIGTERM {
				signalName = "SIGTERM"
			}

			// De-energize the subsystem before exit.
			if err := driver.Apply(logic.Commands{}); err != nil {
				log.Printf("actuator shutdown error: %v", err)
			}

			event := mqtt.SystemEvent{
				Timestamp: now(),
				Event:     "SHUTDOWN",
				Reason:    signalName,
				Retained:  true,
			}
			if tracker != nil {
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
				snap := tracker.Snapshot()
				event.RawPayload = status.FormatStatusEvent(snap, "SHUTDOWN", signalName)
			}
			if err := publisher.PublishSystem(event); err != nil {
				log.Printf("failed to publish shutdown event: %v", err)
			} else {
				log.Printf("published shutdown event")
			}
			return nil

		case <-tick:
			t := now()
			sample, err := reader.Read()
			if err != nil {
				log.Printf("sensor read error: %v", err)
				continue
			}

			safety := thresholds.Evaluate(sample)
			cmd, events := controller.Tick(logic.Input{
				ButtonPressed: sample.ButtonPressed,
				Safety:        safety,
				Time:          t,
			})

			if err := driver.Apply(cmd); err != nil {
				log.Printf("actuator apply error: %v", err)
				// Next tick re-commands the full vector, nothing to retry here.
			}

			sink.Tick(sample, controller.Latch(), t)

			for _, event := range events {
				log.Printf("event: %s (charging=%v neutral=%v brake=%v)",
					event.Type, event.Safety.Charging, event.Safety.Neutral, event.Safety.BrakePressed)
				if event.Type == logic.EventActivated {
					sink.Activated(t)
				}
				if err := publisher.Publish(event); err != nil {
					log.Printf("publish error: %v", err)
					// Don't crash on publish failure
				}
			}

			// Check for heartbeat
			if hbData := controller.CheckHeartbeat(t, heartbeat); hbData != nil {
				log.Printf("heartbeat: uptime=%v latch=%s activations=%d delatches=%d dropped=%d",
					hbData.Uptime, hbData.Latch, hbData.Counts.Activations, hbData.Counts.Delatches, hbData.Counts.DroppedEdges)

				hbEvent := mqtt.SystemEvent{
					Timestamp: hbData.Timestamp,
					Event:     "HEARTBEAT",
				}
				if tracker != nil {
					if mqttStatus != nil {
						tracker.SetMQTTConnected(mqttStatus.IsConnected())
					}
					// Refresh network info for heartbeat
					if net := readNetworkInfo(); net != nil {
						tracker.SetNetwork(net)
					}
					tracker.Update(controller.Latch(), safety, cmd, sample,
						controller.InQuietPeriod(t), controller.EventCountsSnapshot())
					snap := tracker.Snapshot()
					hbEvent.RawPayload = status.FormatStatusEvent(snap, "HEARTBEAT", "")
				}
				if err := publisher.PublishSystem(hbEvent); err != nil {
					log.Printf("heartbeat publish error: %v", err)
				}
			}

			// Update status tracker for HTTP consumers
			if tracker != nil {
				tracker.Update(controller.Latch(), safety, cmd, sample,
					controller.InQuietPeriod(t), controller.EventCountsSnapshot())
				if mqttStatus != nil {
					tracker.SetMQTTConnected(mqttStatus.IsConnected())
				}
			}
		}
	}
}

// openDiagSink resolves the -diag flag into a concrete sink.
func openDiagSink(dest string, baud, every int) (diag.Sink, error) {
	switch dest {
	case "off", "":
		return diag.Discard{}, nil
	case "stdout":
		return diag.NewWriterSink(os.Stdout, every), nil
	default:
		return diag.OpenSerial(dest, baud, every)
	}
}

// pi-helper env var names (written to /run/pi-helper.env).
const (
	envNetworkType       = "NETWORK_TYPE"
	envNetworkIP         = "NETWORK_IP"
	envNetworkStatus     = "NETWORK_STATUS"
	envNetworkGateway    = "NETWORK_GATEWAY"
	envNetworkWifiStatus = "NETWORK_WIFI_STATUS"
	envNetworkWifiSSID   = "NETWORK_WIFI_SSID"
)

func readNetworkInfo() *status.NetworkInfo {
	s := os.Getenv(envNetworkStatus)
	if s == "" {
		return nil
	}
	return &status.NetworkInfo{
		Type:       os.Getenv(envNetworkType),
		IP:         os.Getenv(envNetworkIP),
		Status:     s,
		Gateway:    os.Getenv(envNetworkGateway),
		WifiStatus: os.Getenv(envNetworkWifiStatus),
		SSID:       os.Getenv(envNetworkWifiSSID),
	}
}
