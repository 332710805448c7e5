// Copyright 2024 Ewout Prangsma
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//
// Author Ewout Prangsma
//

package bridge

import (
	"fmt"
	"os"
	"sync"
	"syscall"
	"unsafe"

	"github.com/pkg/errors"
)

const (
	// From  /usr/include/linux/i2c-dev.h:
	// ioctl signals
	I2C_SLAVE = 0x0703
	I2C_FUNCS = 0x0705
	I2C_SMBUS = 0x0720
	// Read/write markers
	I2C_SMBUS_READ  = 1
	I2C_SMBUS_WRITE = 0

	// From  /usr/include/linux/i2c.h:
	// Adapter functionality
	I2C_FUNC_SMBUS_QUICK           = 0x00010000
	I2C_FUNC_SMBUS_READ_BYTE_DATA  = 0x00080000
	I2C_FUNC_SMBUS_WRITE_BYTE_DATA = 0x00100000
	I2C_FUNC_SMBUS_WRITE_WORD_DATA = 0x00400000
	// Transaction types
	I2C_SMBUS_QUICK     = 0
	I2C_SMBUS_BYTE_DATA = 2
	I2C_SMBUS_WORD_DATA = 3
)

type i2cSmbusIoctlData struct {
	readWrite byte
	command   byte
	size      uint32
	data      uintptr
}

// I2CBus provides register level access to devices on an I2C bus.
type I2CBus interface {
	Close() (err error)
	ReadByteReg(addr byte, reg uint8) (uint8, error)
	WriteByteReg(addr byte, reg uint8, val uint8) (err error)
	WriteWordReg(addr byte, reg uint8, val uint16) (err error)
	// DetectSlaveAddresses probes the bus to detect available addresses.
	DetectSlaveAddresses() []byte
}

type i2cBus struct {
	mutex sync.Mutex
	file  *os.File
	funcs uint64 // adapter functionality mask
}

// NewI2CBus opens the I2C bus at the given location and queries its
// functionality.
func NewI2CBus(location string) (I2CBus, error) {
	d := &i2cBus{}

	var err error
	if d.file, err = os.OpenFile(location, os.O_RDWR, os.ModeExclusive); err != nil {
		return nil, maskAny(err)
	}
	if err := d.queryFunctionality(); err != nil {
		return nil, maskAny(err)
	}

	return d, nil
}

func (d *i2cBus) queryFunctionality() (err error) {
	_, _, errno := syscall.Syscall(
		syscall.SYS_IOCTL,
		d.file.Fd(),
		I2C_FUNCS,
		uintptr(unsafe.Pointer(&d.funcs)),
	)

	if errno != 0 {
		err = fmt.Errorf("Querying functionality failed with syscall.Errno %v", errno)
	}
	return
}

func (d *i2cBus) setAddress(address byte) (err error) {
	_, _, errno := syscall.Syscall(
		syscall.SYS_IOCTL,
		d.file.Fd(),
		I2C_SLAVE,
		uintptr(address),
	)

	if errno != 0 {
		err = fmt.Errorf("Setting address failed with syscall.Errno %v", errno)
	}

	return
}

func (d *i2cBus) Close() (err error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	return d.file.Close()
}

func (d *i2cBus) ReadByteReg(addr byte, reg uint8) (uint8, error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.setAddress(addr); err != nil {
		return 0, errors.Wrap(err, "setAddress failed")
	}
	val, err := d.readByteData(reg)
	if err != nil {
		return 0, errors.Wrap(err, "readByteData failed")
	}
	return val, nil
}

func (d *i2cBus) WriteByteReg(addr byte, reg uint8, val uint8) (err error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	addrLabel := fmt.Sprintf("0x%02x", addr)
	i2cWriteCounters.WithLabelValues(addrLabel).Inc()
	if err := d.setAddress(addr); err != nil {
		i2cWriteErrorCounters.WithLabelValues(addrLabel).Inc()
		return errors.Wrap(err, "setAddress failed")
	}
	if err := d.writeByteData(reg, val); err != nil {
		i2cWriteErrorCounters.WithLabelValues(addrLabel).Inc()
		return errors.Wrap(err, "writeByteData failed")
	}
	return nil
}

func (d *i2cBus) WriteWordReg(addr byte, reg uint8, val uint16) (err error) {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	addrLabel := fmt.Sprintf("0x%02x", addr)
	i2cWriteCounters.WithLabelValues(addrLabel).Inc()
	if err := d.setAddress(addr); err != nil {
		i2cWriteErrorCounters.WithLabelValues(addrLabel).Inc()
		return errors.Wrap(err, "setAddress failed")
	}
	if err := d.writeWordData(reg, val); err != nil {
		i2cWriteErrorCounters.WithLabelValues(addrLabel).Inc()
		return errors.Wrap(err, "writeWordData failed")
	}
	return nil
}

func (d *i2cBus) detectAddress(addr byte) error {
	d.mutex.Lock()
	defer d.mutex.Unlock()

	if err := d.setAddress(addr); err != nil {
		return errors.Wrap(err, "setAddress failed")
	}
	if err := d.quick(); err != nil {
		return errors.Wrap(err, "quick failed")
	}
	return nil
}

func (d *i2cBus) quick() (err error) {
	if d.funcs&I2C_FUNC_SMBUS_QUICK == 0 {
		return fmt.Errorf("SMBus quick not supported")
	}

	err = d.smbusAccess(I2C_SMBUS_WRITE, 0, I2C_SMBUS_QUICK, uintptr(0))
	return err
}

func (d *i2cBus) readByteData(reg uint8) (val uint8, err error) {
	if d.funcs&I2C_FUNC_SMBUS_READ_BYTE_DATA == 0 {
		return 0, fmt.Errorf("SMBus read byte data not supported")
	}

	var data uint8
	err = d.smbusAccess(I2C_SMBUS_READ, reg, I2C_SMBUS_BYTE_DATA, uintptr(unsafe.Pointer(&data)))
	return data, err
}

func (d *i2cBus) writeByteData(reg uint8, val uint8) (err error) {
	if d.funcs&I2C_FUNC_SMBUS_WRITE_BYTE_DATA == 0 {
		return fmt.Errorf("SMBus write byte data not supported")
	}

	var data = val
	err = d.smbusAccess(I2C_SMBUS_WRITE, reg, I2C_SMBUS_BYTE_DATA, uintptr(unsafe.Pointer(&data)))
	return err
}

func (d *i2cBus) writeWordData(reg uint8, val uint16) (err error) {
	if d.funcs&I2C_FUNC_SMBUS_WRITE_WORD_DATA == 0 {
		return fmt.Errorf("SMBus write word data not supported")
	}

	var data = val
	err = d.smbusAccess(I2C_SMBUS_WRITE, reg, I2C_SMBUS_WORD_DATA, uintptr(unsafe.Pointer(&data)))
	return err
}

func (d *i2cBus) smbusAccess(readWrite byte, command byte, size uint32, data uintptr) error {
	smbus := &i2cSmbusIoctlData{
		readWrite: readWrite,
		command:   command,
		size:      size,
		data:      data,
	}

	_, _, errno := syscall.Syscall(
		syscall.SYS_IOCTL,
		d.file.Fd(),
		I2C_SMBUS,
		uintptr(unsafe.Pointer(smbus)),
	)

	if errno != 0 {
		return fmt.Errorf("Failed with syscall.Errno %v", errno)
	}

	return nil
}

// DetectSlaveAddresses probes the bus to detect available addresses.
func (d *i2cBus) DetectSlaveAddresses() []byte {
	var result []byte
	for addr := 1; addr < 128; addr++ {
		if err := d.detectAddress(byte(addr)); err == nil {
			result = append(result, byte(addr))
		}
	}
	return result
}
