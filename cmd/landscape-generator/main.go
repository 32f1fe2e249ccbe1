package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"k8s.io/klog/v2"
)

func main() {
	klog.InitFlags(nil)

	cmd := newRootCmd()
	cmd.PersistentFlags().AddGoFlagSet(flag.CommandLine)

	ctx := klog.NewContext(context.Background(), klog.Background())
	err := cmd.ExecuteContext(ctx)
	klog.Flush()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
