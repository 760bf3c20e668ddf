package cmd

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"

	"taskman/internal/config"
	"taskman/internal/store"
	"taskman/internal/task"
)

// doctorCommand checks connectivity, indexes, and stored document validity.
func doctorCommand(ctx context.Context, cfg *config.Config, args []string) error {
	fs := flag.NewFlagSet("taskman doctor", flag.ContinueOnError)
	verbose := fs.Bool("v", false, "Verbose output")

	if err := fs.Parse(args); err != nil {
		return err
	}
	if len(fs.Args()) > 0 {
		return fmt.Errorf("unexpected arguments: %v", fs.Args())
	}

	fmt.Println("Taskman Doctor")
	fmt.Println("==============")
	fmt.Println()

	allOK := true

	fmt.Println("Config:")
	if file := config.ActiveConfigFile(); file != "" {
		fmt.Printf("  ✅ Config file: %s\n", file)
	} else {
		fmt.Println("  ✅ Config file: none (defaults)")
	}
	fmt.Printf("  ✅ Driver: %s\n", cfg.Store.Driver)
	if cfg.Store.Driver == "mongo" {
		fmt.Printf("  ✅ URI: %s\n", cfg.Store.URI)
		fmt.Printf("  ✅ Database: %s, collection: %s\n", cfg.Store.Database, cfg.Store.Collection)
	}
	if cfg.History {
		fmt.Printf("  ✅ History dir: %s\n", cfg.HistoryDir)
	} else {
		fmt.Println("  ✅ History: disabled")
	}
	fmt.Println()

	fmt.Println("Store:")
	s, err := openStore(ctx, cfg, discardLogger())
	if err != nil {
		fmt.Printf("  ❌ Connect: %v\n", err)
		fmt.Println()
		fmt.Println("⚠️  Some checks failed. Taskman may not function correctly.")
		return fmt.Errorf("doctor checks failed")
	}
	defer s.Close(context.Background())

	if err := s.Ping(ctx); err != nil {
		fmt.Printf("  ❌ Ping: %v\n", err)
		allOK = false
	} else {
		fmt.Println("  ✅ Ping OK")
	}

	if ms, ok := s.(*store.MongoStore); ok {
		names, err := ms.IndexNames(ctx)
		if err != nil {
			fmt.Printf("  ❌ Indexes: %v\n", err)
			allOK = false
		} else {
			fmt.Printf("  ✅ Indexes: %d\n", len(names))
			if *verbose {
				for _, name := range names {
					fmt.Printf("     - %s\n", name)
				}
			}
		}
		count, err := ms.Count(ctx)
		if err != nil {
			fmt.Printf("  ❌ Document count: %v\n", err)
			allOK = false
		} else {
			fmt.Printf("  ✅ Documents: %d\n", count)
		}
	}
	fmt.Println()

	fmt.Println("Documents:")
	tasks, err := s.FindAll(ctx, store.Filter{})
	if err != nil {
		fmt.Printf("  ❌ Load: %v\n", err)
		allOK = false
	} else {
		invalid := 0
		for i := range tasks {
			raw, err := json.Marshal(&tasks[i])
			if err != nil {
				fmt.Printf("  ❌ %s: %v\n", tasks[i].TaskID, err)
				invalid++
				continue
			}
			if errs := task.ValidateDocument(raw); len(errs) > 0 {
				invalid++
				fmt.Printf("  ❌ %s:\n", tasks[i].TaskID)
				for _, e := range errs {
					fmt.Printf("     - %v\n", e)
				}
			} else if *verbose {
				fmt.Printf("  ✅ %s\n", tasks[i].TaskID)
			}
		}
		if invalid == 0 {
			fmt.Printf("  ✅ All %d document(s) valid\n", len(tasks))
		} else {
			fmt.Printf("  ❌ %d of %d document(s) invalid\n", invalid, len(tasks))
			allOK = false
		}
	}
	fmt.Println()

	if allOK {
		fmt.Println("✅ All checks passed!")
		return nil
	}
	fmt.Println("⚠️  Some checks failed. Taskman may not function correctly.")
	return fmt.Errorf("doctor checks failed")
}
