package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"os"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/simcore/machine"
	"github.com/wippyai/simcore/plugin"
	"github.com/wippyai/simcore/wasmdev"
)

func main() {
	var (
		ram         = flag.String("ram", "16M@0x80000000", "Guest RAM as size@base (size accepts K/M/G suffixes)")
		peek        = flag.String("peek", "", "One-shot load as addr,len; prints a hex dump")
		poke        = flag.String("poke", "", "One-shot store as addr,hexbytes")
		find        = flag.String("find", "", "Resolve an address to its owning device")
		list        = flag.Bool("list", false, "List configured devices and exit")
		interactive = flag.Bool("i", false, "Interactive inspector TUI")
		verbose     = flag.Bool("v", false, "Enable debug logging")
	)

	var devices []machine.DeviceConfig
	flag.Func("device", "Device as plugin@base=args (repeatable)", func(s string) error {
		dc, err := parseDevice(s)
		if err != nil {
			return err
		}
		devices = append(devices, dc)
		return nil
	})

	var wasmPlugins []machine.WASMPluginConfig
	flag.Func("plugin", "WASM device plugin as name=file.wasm (repeatable)", func(s string) error {
		name, path, ok := strings.Cut(s, "=")
		if !ok {
			return fmt.Errorf("want name=file.wasm, got %q", s)
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		wasmPlugins = append(wasmPlugins, machine.WASMPluginConfig{Name: name, Module: data})
		return nil
	})

	flag.Parse()

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		machine.SetLogger(logger)
		plugin.SetLogger(logger)
		wasmdev.SetLogger(logger)
	}

	cfg, err := buildConfig(*ram, devices, wasmPlugins)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *interactive {
		if err := runInteractive(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(cfg, *peek, *poke, *find, *list); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(cfg machine.Config, peek, poke, find string, list bool) error {
	ctx := context.Background()

	m, err := machine.New(ctx, cfg)
	if err != nil {
		return err
	}
	defer m.Close(ctx)

	if list {
		for _, d := range m.Devices() {
			fmt.Printf("%#016x  %s\n", d.Base, d.Name)
		}
		return nil
	}

	if find != "" {
		addr, err := parseAddr(find)
		if err != nil {
			return err
		}
		base, dev := m.FindDevice(addr)
		if dev == nil {
			return fmt.Errorf("no device owns %#x", addr)
		}
		fmt.Printf("%#x -> device at base %#x, offset %#x\n", addr, base, addr-base)
		return nil
	}

	if poke != "" {
		addrStr, hexStr, ok := strings.Cut(poke, ",")
		if !ok {
			return fmt.Errorf("want addr,hexbytes, got %q", poke)
		}
		addr, err := parseAddr(addrStr)
		if err != nil {
			return err
		}
		data, err := hex.DecodeString(hexStr)
		if err != nil {
			return err
		}
		if !m.Store(addr, data) {
			return fmt.Errorf("store of %d bytes at %#x faulted", len(data), addr)
		}
	}

	if peek != "" {
		addrStr, lenStr, ok := strings.Cut(peek, ",")
		if !ok {
			return fmt.Errorf("want addr,len, got %q", peek)
		}
		addr, err := parseAddr(addrStr)
		if err != nil {
			return err
		}
		n, err := strconv.ParseUint(lenStr, 0, 32)
		if err != nil {
			return err
		}
		data := make([]byte, n)
		if !m.Load(addr, data) {
			return fmt.Errorf("load of %d bytes at %#x faulted", n, addr)
		}
		fmt.Print(hexDump(addr, data))
	}

	return nil
}

func buildConfig(ram string, devices []machine.DeviceConfig, wasmPlugins []machine.WASMPluginConfig) (machine.Config, error) {
	cfg := machine.Config{
		Devices:     devices,
		WASMPlugins: wasmPlugins,
	}

	if ram != "" {
		sizeStr, baseStr, ok := strings.Cut(ram, "@")
		if !ok {
			return cfg, fmt.Errorf("want size@base, got %q", ram)
		}
		size, err := parseSize(sizeStr)
		if err != nil {
			return cfg, err
		}
		base, err := parseAddr(baseStr)
		if err != nil {
			return cfg, err
		}
		cfg.RAMSize = size
		cfg.RAMBase = base
	}

	return cfg, nil
}

func parseAddr(s string) (uint64, error) {
	return strconv.ParseUint(strings.TrimSpace(s), 0, 64)
}

func parseSize(s string) (uint64, error) {
	mult := uint64(1)
	switch {
	case strings.HasSuffix(s, "K"):
		mult, s = 1<<10, strings.TrimSuffix(s, "K")
	case strings.HasSuffix(s, "M"):
		mult, s = 1<<20, strings.TrimSuffix(s, "M")
	case strings.HasSuffix(s, "G"):
		mult, s = 1<<30, strings.TrimSuffix(s, "G")
	}
	n, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, err
	}
	return n * mult, nil
}

// parseDevice parses plugin@base=args. args may be empty and may contain
// any character, including '=' and '@'.
func parseDevice(s string) (machine.DeviceConfig, error) {
	pluginName, rest, ok := strings.Cut(s, "@")
	if !ok {
		return machine.DeviceConfig{}, fmt.Errorf("want plugin@base=args, got %q", s)
	}
	baseStr, args, _ := strings.Cut(rest, "=")
	base, err := parseAddr(baseStr)
	if err != nil {
		return machine.DeviceConfig{}, err
	}
	return machine.DeviceConfig{Plugin: pluginName, Base: base, Args: args}, nil
}

func hexDump(addr uint64, data []byte) string {
	var b strings.Builder
	for i := 0; i < len(data); i += 16 {
		fmt.Fprintf(&b, "%#016x ", addr+uint64(i))
		for j := i; j < i+16 && j < len(data); j++ {
			fmt.Fprintf(&b, " %02x", data[j])
		}
		b.WriteByte('\n')
	}
	return b.String()
}
