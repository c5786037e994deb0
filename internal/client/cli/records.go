package cli

import (
	"context"
	"fmt"
	"strconv"
	"text/tabwriter"

	"github.com/dmitrijs2005/csemanager/internal/client/models"
)

func (a *App) Clients(ctx context.Context) error {
	list, err := a.records.Clients(ctx)
	if err != nil {
		return a.report(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No clients")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOME\tTELEFONE\tENDERECO\tEMAIL")
	for _, c := range list {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", c.ID, c.Nome, c.Telefone, c.Endereco, c.Email)
	}
	return tw.Flush()
}

func (a *App) AddClient(ctx context.Context) error {
	var in models.Client
	prompts := []struct {
		label string
		dst   *string
	}{
		{"Nome", &in.Nome},
		{"Telefone", &in.Telefone},
		{"Endereço", &in.Endereco},
		{"Email", &in.Email},
		{"Notas", &in.Notas},
	}
	for _, p := range prompts {
		v, err := GetSimpleText(a.reader, p.label, a.out)
		if err != nil {
			return err
		}
		*p.dst = v
	}

	c, err := a.records.AddClient(ctx, in)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Client %d created\n", c.ID)
	return nil
}

func (a *App) Tasks(ctx context.Context) error {
	list, err := a.records.Tasks(ctx)
	if err != nil {
		return a.report(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No tasks")
		return nil
	}

	tw := tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tTITULO\tSTATUS\tPRIORIDADE\tDATA\tCLIENTE")
	for _, t := range list {
		prio, date := "-", "-"
		if t.Prioridade != nil {
			prio = strconv.Itoa(*t.Prioridade)
		}
		if t.DataServico != nil {
			date = *t.DataServico
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\t%s\n", t.ID, t.Titulo, t.Status, prio, date, t.ClientLabel())
	}
	return tw.Flush()
}

func (a *App) AddTask(ctx context.Context) error {
	var in models.Task
	var err error

	if in.Titulo, err = GetSimpleText(a.reader, "Título", a.out); err != nil {
		return err
	}
	if in.Descricao, err = GetSimpleText(a.reader, "Descrição", a.out); err != nil {
		return err
	}
	if in.Status, err = GetSimpleText(a.reader, "Status [EM_ABERTO|EM_ANDAMENTO|FINALIZADO] (optional)", a.out); err != nil {
		return err
	}

	prio, err := GetOptionalInt(a.reader, "Prioridade 1-3", a.out)
	if err != nil {
		return a.report(err)
	}
	if prio != nil {
		p := int(*prio)
		in.Prioridade = &p
	}

	if in.ClienteID, err = GetOptionalInt(a.reader, "Cliente ID", a.out); err != nil {
		return a.report(err)
	}
	if in.DataServico, err = GetOptionalText(a.reader, "Data do serviço yyyy-mm-dd", a.out); err != nil {
		return err
	}

	t, err := a.records.AddTask(ctx, in)
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Task %d created\n", t.ID)
	return nil
}

func (a *App) Attach(ctx context.Context, args []string) error {
	if len(args) != 2 {
		fmt.Fprintln(a.out, "Usage: attach <taskID> <file>")
		return nil
	}
	taskID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: attach <taskID> <file>")
		return nil
	}

	id, err := a.records.Attach(ctx, taskID, args[1])
	if err != nil {
		return a.report(err)
	}
	fmt.Fprintf(a.out, "Attachment %d uploaded\n", id)
	return nil
}

func (a *App) Attachments(ctx context.Context, args []string) error {
	if len(args) != 1 {
		fmt.Fprintln(a.out, "Usage: attachments <taskID>")
		return nil
	}
	taskID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		fmt.Fprintln(a.out, "Usage: attachments <taskID>")
		return nil
	}

	list, err := a.records.Attachments(ctx, taskID)
	if err != nil {
		return a.report(err)
	}
	if len(list) == 0 {
		fmt.Fprintln(a.out, "No attachments")
		return nil
	}
	for _, at := range list {
		fmt.Fprintf(a.out, "%d  %s  %s  %s\n", at.ID, at.NomeArquivo, at.Status, at.CriadoEm.Format("2006-01-02 15:04"))
	}
	return nil
}
