//go:build tinygo

/*
Zaparoo Kiosk
Copyright (c) 2026 The Zaparoo Project Contributors.
SPDX-License-Identifier: GPL-3.0-or-later

This file is part of Zaparoo Kiosk.

Zaparoo Kiosk is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Zaparoo Kiosk is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Zaparoo Kiosk.  If not, see <http://www.gnu.org/licenses/>.
*/

// Command firmware runs on the kiosk board. It streams the button and
// accelerometer to the host over USB serial and draws the frames the host
// sends on the OLED.
package main

import (
	"image/color"
	"machine"
	"time"

	"github.com/ZaparooProject/zaparoo-kiosk/pkg/link/wire"
	"tinygo.org/x/drivers/mpu6050"
	"tinygo.org/x/drivers/ssd1306"
	"tinygo.org/x/tinyfont"
	"tinygo.org/x/tinyfont/proggy"
)

const (
	pollInterval = 100 * time.Millisecond
	buttonPin    = machine.GPIO4

	oledAddress = 0x3C
	oledWidth   = 128
	oledHeight  = 64
	lineHeight  = oledHeight / wire.Rows

	maxCommand = 64
)

var (
	white = color.RGBA{R: 255, G: 255, B: 255, A: 255}
	font  = &proggy.TinySZ8pt7b
)

func main() {
	time.Sleep(time.Second)

	err := machine.I2C0.Configure(machine.I2CConfig{Frequency: 400 * machine.KHz})
	if err != nil {
		println("i2c:", err.Error())
	}

	buttonPin.Configure(machine.PinConfig{Mode: machine.PinInputPullup})

	oled := ssd1306.NewI2C(machine.I2C0)
	oled.Configure(ssd1306.Config{
		Address:  oledAddress,
		Width:    oledWidth,
		Height:   oledHeight,
		VccState: ssd1306.SWITCHCAPVCC,
	})
	oled.ClearDisplay()

	accel := mpu6050.New(machine.I2C0)
	hasAccel := accel.Connected()
	if hasAccel {
		if err := accel.Configure(); err != nil {
			println("mpu6050:", err.Error())
			hasAccel = false
		}
	} else {
		println("mpu6050 not found, sending zero acceleration")
	}

	var dec wire.Decoder
	lines := wire.NewLineReader(maxCommand)
	sample := make([]byte, 0, 48)

	draw(&oled, [wire.Rows]string{"Zaparoo Kiosk", "", "Waiting for host..."})

	ticker := time.NewTicker(pollInterval)
	for range ticker.C {
		for machine.Serial.Buffered() > 0 {
			c, err := machine.Serial.ReadByte()
			if err != nil {
				break
			}
			if line, ok := lines.Feed(c); ok && dec.Handle(line) {
				draw(&oled, dec.Lines())
			}
		}

		var ax, ay, az int32
		if hasAccel {
			ax, ay, az = accel.ReadAcceleration()
		}
		// pull-up: pressed reads low
		pressed := !buttonPin.Get()

		sample = wire.AppendSample(sample[:0], pressed, ax, ay, az)
		_, _ = machine.Serial.Write(sample)
	}
}

func draw(oled *ssd1306.Device, frame [wire.Rows]string) {
	oled.ClearBuffer()
	for i, text := range frame {
		if text == "" {
			continue
		}
		// y is the text baseline
		tinyfont.WriteLine(oled, font, 0, int16((i+1)*lineHeight-1), text, white)
	}
	if err := oled.Display(); err != nil {
		println("oled:", err.Error())
	}
}
